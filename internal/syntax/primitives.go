package syntax

// GateClass groups built-in gates with the same connection shape.
type GateClass uint8

const (
	GateNInput   GateClass = iota // and, or, ...: one output, one or more inputs
	GateNOutput                   // buf, not: one or more outputs, one input
	GateEnable                    // bufif0 ...: output, input, enable
	GateMOS                       // nmos ...: output, input, enable
	GateCMOS                      // cmos: output, input, n-control, p-control
	GatePassSw                    // tran: two inouts
	GatePassEnSw                  // tranif0 ...: two inouts, enable
	GatePull                      // pullup, pulldown: one output
)

// Gate describes one built-in primitive.
type Gate struct {
	Name      string
	Class     GateClass
	MinPorts  int
	MaxPorts  int // 0 means unbounded
	MaxDelays int
}

var gates = map[string]Gate{}

func init() {
	add := func(class GateClass, minPorts, maxPorts, maxDelays int, names ...string) {
		for _, n := range names {
			gates[n] = Gate{Name: n, Class: class, MinPorts: minPorts, MaxPorts: maxPorts, MaxDelays: maxDelays}
		}
	}
	add(GateNInput, 2, 0, 2, "and", "nand", "or", "nor", "xor", "xnor")
	add(GateNOutput, 2, 0, 2, "buf", "not")
	add(GateEnable, 3, 3, 3, "bufif0", "bufif1", "notif0", "notif1")
	add(GateMOS, 3, 3, 3, "nmos", "pmos", "rnmos", "rpmos")
	add(GateCMOS, 4, 4, 3, "cmos", "rcmos")
	add(GatePassSw, 2, 2, 0, "tran", "rtran")
	add(GatePassEnSw, 3, 3, 2, "tranif0", "tranif1", "rtranif0", "rtranif1")
	add(GatePull, 1, 1, 0, "pullup", "pulldown")
}

// LookupGate reports whether name is a built-in gate primitive.
func LookupGate(name string) (Gate, bool) {
	g, ok := gates[name]
	return g, ok
}

// AcceptsPorts reports whether n connections fit the gate.
func (g Gate) AcceptsPorts(n int) bool {
	if n < g.MinPorts {
		return false
	}
	return g.MaxPorts == 0 || n <= g.MaxPorts
}
