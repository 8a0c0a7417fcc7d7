package mqtt

import "fmt"

// TopicPrefix is the root of every handlerhub topic.
const TopicPrefix = "handlerhub"

// Topics provides builders for handlerhub MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.ConsoleResponse("lgwebos", "req-1a2b3c4d")
//	// Returns: "handlerhub/console/lgwebos/response/req-1a2b3c4d"
type Topics struct{}

// SystemStatus returns the retained online/offline status topic.
//
// Example: handlerhub/system/status
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// ConsoleRequest returns the topic on which console requests for ext arrive.
//
// Example: handlerhub/console/openwebnet/request
func (Topics) ConsoleRequest(ext string) string {
	return fmt.Sprintf("%s/console/%s/request", TopicPrefix, ext)
}

// ConsoleResponse returns the topic a console response is published on.
//
// Example: handlerhub/console/openwebnet/response/req-1a2b3c4d
func (Topics) ConsoleResponse(ext, requestID string) string {
	return fmt.Sprintf("%s/console/%s/response/%s", TopicPrefix, ext, requestID)
}

// ThingsAdd returns the topic for device-added requests.
func (Topics) ThingsAdd() string {
	return TopicPrefix + "/things/add"
}

// ThingsRemove returns the topic for device-removed requests.
func (Topics) ThingsRemove() string {
	return TopicPrefix + "/things/remove"
}

// ThingsEvent returns the topic lifecycle events are published on.
func (Topics) ThingsEvent() string {
	return TopicPrefix + "/things/event"
}

// TVState returns the state topic of one webOS TV.
//
// Example: handlerhub/state/lgwebos/lgwebos:WebOSTV:living
func (Topics) TVState(uid string) string {
	return fmt.Sprintf("%s/state/lgwebos/%s", TopicPrefix, uid)
}

// GatewayTX returns the topic frames for an OpenWebNet gateway are published on.
//
// Example: handlerhub/openwebnet/openwebnet:bus_gateway:mh202/tx
func (Topics) GatewayTX(gateway string) string {
	return fmt.Sprintf("%s/openwebnet/%s/tx", TopicPrefix, gateway)
}

// AllConsoleRequests matches console requests for every extension.
//
// Pattern: handlerhub/console/+/request
func (Topics) AllConsoleRequests() string {
	return TopicPrefix + "/console/+/request"
}

// AllTVStates matches the state topics of every webOS TV.
//
// Pattern: handlerhub/state/lgwebos/+
func (Topics) AllTVStates() string {
	return TopicPrefix + "/state/lgwebos/+"
}

// AllTopics matches all handlerhub traffic. Use with caution.
//
// Pattern: handlerhub/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
