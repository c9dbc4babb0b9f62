package mqtt

// Config defines the connection parameters for the Paho MQTT bridge.
type Config struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// TopicPrefix namespaces the bridge topics, e.g. "nav" yields
	// "nav/map", "nav/goal" and so on.
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults applies the standard bridge settings.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "routeman"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "nav"
	}
}

func (c Config) topic(suffix string) string {
	return c.TopicPrefix + "/" + suffix
}

// Topic suffixes used by the bridge. The map topics are expected to be
// retained so the one-shot startup reads resolve regardless of publish
// order; goal submissions are published by the bridge, the rest are
// consumed.
const (
	topicMapMeta = "map_metadata"
	topicMap     = "map"
	topicGoal    = "goal"
	topicPlan    = "global_plan"
	topicResult  = "result"
	topicStatus  = "status"
)
