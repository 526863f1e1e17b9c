package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/firefly-engineering/firefly-outpost/internal/config"
	outposterrors "github.com/firefly-engineering/firefly-outpost/internal/errors"
	"github.com/firefly-engineering/firefly-outpost/internal/system"
)

func noSleep(time.Duration) {}

func staticStrategy(name, addr string, calls *int) Strategy {
	return Strategy{
		Name: name,
		Lookup: func(ctx context.Context) string {
			if calls != nil {
				*calls++
			}
			return addr
		},
	}
}

func TestResolve_FirstStrategyWins(t *testing.T) {
	var firstCalls, secondCalls int
	r := New("iot-gateway", []Strategy{
		staticStrategy("structured", "10.0.0.5", &firstCalls),
		staticStrategy("text", "192.168.1.50", &secondCalls),
	}, WithSleep(noSleep))

	addr, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if addr != "10.0.0.5" {
		t.Errorf("address = %q, want 10.0.0.5", addr)
	}
	if firstCalls != 1 {
		t.Errorf("first strategy called %d times, want 1", firstCalls)
	}
	if secondCalls != 0 {
		t.Errorf("later strategy called %d times, want 0", secondCalls)
	}
}

func TestResolve_FallsBackPastInvalidCandidate(t *testing.T) {
	r := New("iot-gateway", []Strategy{
		staticStrategy("structured", "127.0.0.1", nil),
		staticStrategy("text", "192.168.1.50", nil),
	}, WithSleep(noSleep))

	addr, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if addr != "192.168.1.50" {
		t.Errorf("address = %q, want 192.168.1.50", addr)
	}
}

func TestResolve_ExhaustsBudget(t *testing.T) {
	var calls int
	slept := 0
	r := New("iot-gateway", []Strategy{
		staticStrategy("structured", "", &calls),
	}, WithRounds(10), WithSleep(func(time.Duration) { slept++ }))

	_, err := r.Resolve(context.Background())
	if err == nil {
		t.Fatal("Resolve() should fail when every round comes up empty")
	}

	var outpostErr *outposterrors.OutpostError
	if !errors.As(err, &outpostErr) {
		t.Fatalf("error should be an OutpostError, got %T", err)
	}
	if outpostErr.Code != outposterrors.ExitAddressNotFound {
		t.Errorf("exit code = %d, want %d", outpostErr.Code, outposterrors.ExitAddressNotFound)
	}

	if calls != 10 {
		t.Errorf("strategy invoked %d times, want exactly 10 rounds", calls)
	}
	// No sleep after the final round.
	if slept != 9 {
		t.Errorf("slept %d times, want 9", slept)
	}
}

func TestResolve_LaterRoundSucceeds(t *testing.T) {
	round := 0
	r := New("iot-gateway", []Strategy{
		{
			Name: "structured",
			Lookup: func(ctx context.Context) string {
				round++
				if round >= 3 {
					return "10.0.0.5"
				}
				return "null"
			},
		},
	}, WithSleep(noSleep))

	addr, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if addr != "10.0.0.5" {
		t.Errorf("address = %q, want 10.0.0.5", addr)
	}
	if round != 3 {
		t.Errorf("strategy invoked %d times, want 3", round)
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New("iot-gateway", []Strategy{
		staticStrategy("structured", "10.0.0.5", nil),
	}, WithSleep(noSleep))

	if _, err := r.Resolve(ctx); err == nil {
		t.Error("Resolve() should fail with a cancelled context")
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"10.0.0.5", true},
		{"192.168.1.50", true},
		{"", false},
		{"null", false},
		{"127.0.0.1", false},
		{"not-an-address", false},
		{"10.0.0.5 extra", false},
		{"fe80::1", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := Valid(tt.addr); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestExtractIPv4(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"plain token", "address = 192.168.1.50", "192.168.1.50"},
		{"skips loopback", "bound to 127.0.0.1, external 10.0.0.5", "10.0.0.5"},
		{"no address", "no state", ""},
		{"getent output", "192.168.1.50    iot-gateway.local", "192.168.1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractIPv4(tt.output); got != tt.want {
				t.Errorf("ExtractIPv4(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestTerraformStrategies_StructuredOutput(t *testing.T) {
	mock := system.NewMockExecutor()
	mock.AddResponse("terraform -chdir=.", []byte(`"10.0.0.5"`+"\n"), nil)

	strategies := TerraformStrategies(mock, "iot-gateway", config.Provisioner{Dir: ".", Output: "vm_ip"})
	if len(strategies) != 3 {
		t.Fatalf("got %d strategies, want 3", len(strategies))
	}

	addr := strategies[0].Lookup(context.Background())
	if addr != "10.0.0.5" {
		t.Errorf("structured strategy = %q, want 10.0.0.5", addr)
	}
}

func TestTerraformStrategies_ShowFallback(t *testing.T) {
	mock := system.NewMockExecutor()
	// Both terraform subcommands share the "terraform -chdir=." pattern, so
	// distinguish with a full state dump that the output decoder rejects.
	mock.AddResponse("terraform -chdir=.", []byte("resource \"libvirt_domain\" \"vm\" {\n  network_interface {\n    addresses = [\"192.168.122.73\"]\n  }\n}\n"), nil)

	strategies := TerraformStrategies(mock, "iot-gateway", config.Provisioner{Dir: ".", Output: "vm_ip"})

	if addr := strategies[0].Lookup(context.Background()); addr != "" {
		t.Errorf("structured strategy = %q, want empty for non-JSON output", addr)
	}
	if addr := strategies[1].Lookup(context.Background()); addr != "192.168.122.73" {
		t.Errorf("text strategy = %q, want 192.168.122.73", addr)
	}
}

func TestTerraformStrategies_MDNS(t *testing.T) {
	mock := system.NewMockExecutor()
	mock.AddResponse("getent hosts", []byte("192.168.1.50    iot-gateway.local\n"), nil)

	strategies := TerraformStrategies(mock, "iot-gateway", config.Provisioner{Dir: ".", Output: "vm_ip"})

	addr := strategies[2].Lookup(context.Background())
	if addr != "192.168.1.50" {
		t.Errorf("mdns strategy = %q, want 192.168.1.50", addr)
	}

	last, _ := mock.LastCommand()
	if len(last.Args) != 2 || last.Args[1] != "iot-gateway.local" {
		t.Errorf("mdns lookup args = %v, want hosts iot-gateway.local", last.Args)
	}
}

func TestTerraformStrategies_ToolFailure(t *testing.T) {
	mock := system.NewMockExecutor()
	mock.DefaultResponse = system.MockResponse{Err: errors.New("exit status 1")}

	strategies := TerraformStrategies(mock, "iot-gateway", config.Provisioner{Dir: ".", Output: "vm_ip"})

	for _, s := range strategies {
		if addr := s.Lookup(context.Background()); addr != "" {
			t.Errorf("strategy %s = %q, want empty on tool failure", s.Name, addr)
		}
	}
}

func TestDecodeOutputValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare string", `"10.0.0.5"`, "10.0.0.5"},
		{"wrapped value", `{"value": "10.0.0.5", "type": "string"}`, "10.0.0.5"},
		{"null output", `null`, ""},
		{"garbage", `resource dump`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeOutputValue([]byte(tt.in)); got != tt.want {
				t.Errorf("decodeOutputValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
