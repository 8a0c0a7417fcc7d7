// Package mqtt is handlerhub's broker connection.
//
// Remote console tools, device lifecycle requests, webOS state feeds and
// OpenWebNet gateway transmitters all meet the hub on the broker. Client
// keeps one paho session alive, restores subscriptions after reconnects
// and maintains a retained online/offline status (with an LWT for the
// unclean case). Topics builds every topic name the hub uses.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllConsoleRequests(), 1, handleRequest)
//
// Tests that need a broker at 127.0.0.1:1883 are behind the integration tag:
//
//	go test -tags=integration ./internal/infrastructure/mqtt/...
package mqtt
