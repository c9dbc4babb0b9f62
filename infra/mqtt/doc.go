// Package mqtt bridges the route manager to the navigation stack over MQTT
// using ROS-bridge conventions: payloads are JSON encodings of the ROS
// message shapes. It implements the map source (one-shot retained reads of
// the occupancy grid) and the navigation action client (goal submission,
// plan and result notifications) on a single Eclipse Paho connection, plus
// mocks used in tests.
package mqtt
