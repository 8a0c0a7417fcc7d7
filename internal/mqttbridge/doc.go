// Package mqttbridge connects the handler registry, the device lifecycle
// and the console extensions to MQTT.
//
// # Subscriptions
//
//	handlerhub/console/{ext}/request   console dispatch for extension ext
//	handlerhub/things/add              device added   {"uid","type","label","bridge","config"}
//	handlerhub/things/remove           device removed {"uid"}
//	handlerhub/state/lgwebos/{uid}     webOS TV state {"applications","channels","key"}
//
// # Publications
//
//	handlerhub/console/{ext}/response/{request_id}
//	handlerhub/things/event            one message per lifecycle event
//	handlerhub/openwebnet/{gateway}/tx raw OpenWebNet frames (FrameSender)
//
// Console requests run on their own goroutine with a timeout so a slow
// handler never blocks the MQTT delivery goroutine.
package mqttbridge
