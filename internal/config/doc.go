// Package config provides configuration types and loading for outpost-ctl.
//
// # Configuration File
//
// Deployment configuration is a single TOML file, by default
// /etc/firefly-outpost/outpost.toml (overridable via OUTPOST_CONFIG or
// the --config flag):
//
//	[target]
//	name = "iot-gateway"
//	user = "ubuntu"
//	identity = "~/.ssh/id_ed25519"
//
//	[provisioner]
//	dir = "./terraform"
//	output = "vm_ip"
//
//	[services.database]
//	port = 5432
//	name = "iotdb"
//	user = "iotuser"
//	container = "timescaledb"
//
//	[services.broker]
//	port = 1883
//
//	[services.dashboard]
//	port = 3000
//	health_path = "/api/health"
//	marker = "database"
//
//	[timeouts]
//	ssh_max_wait = 300
//	ssh_interval = 10
//
// # Environment Overrides
//
// The variables the deployed containers themselves consume override the
// file: POSTGRES_DB, POSTGRES_USER, POSTGRES_PORT, MQTT_PORT, GRAFANA_PORT.
// A single .env file can therefore drive both the stack and this tool.
//
// # Validation
//
// Load validates after parsing: target name shape, SSH user presence,
// port ranges, and positive timeout values.
package config
