// Package resolve discovers a freshly provisioned target's address.
//
// Resolution is a prioritized fallback chain: an ordered list of strategies
// is tried in sequence, each returning an optional candidate, and the first
// candidate passing the validity filter wins. Strategies fail silently;
// only exhausting the whole chain across the full retry budget (10 rounds,
// 5 seconds apart) is an error.
//
//	strategies := resolve.TerraformStrategies(exec, "iot-gateway", cfg.Provisioner)
//	address, err := resolve.New("iot-gateway", strategies).Resolve(ctx)
//
// The validity filter rejects empty strings, the literal "null" that
// terraform prints for unset outputs, the loopback address, and anything
// not shaped like an IPv4 dotted quad.
package resolve
