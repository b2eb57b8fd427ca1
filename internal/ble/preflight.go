package ble

import "fmt"

// AdapterStatus is what Preflight learned about the local adapter. Counts
// are -1 when the platform does not report them.
type AdapterStatus struct {
	ID                 string
	Address            string
	Name               string
	Powered            bool
	SupportedInstances int
	ActiveInstances    int
}

// CanAdvertise reports whether the adapter looks ready to broadcast.
func (s *AdapterStatus) CanAdvertise() bool {
	if !s.Powered {
		return false
	}
	return s.SupportedInstances != 0
}

func (s *AdapterStatus) String() string {
	instances := "unknown"
	if s.SupportedInstances >= 0 {
		instances = fmt.Sprintf("%d free, %d active", s.SupportedInstances, s.ActiveInstances)
	}
	return fmt.Sprintf("%s %s (%q) powered=%t advertising slots: %s",
		s.ID, s.Address, s.Name, s.Powered, instances)
}
