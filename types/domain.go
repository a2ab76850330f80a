package types

// Domain is one bus clock domain. Domains form a divider chain: the
// system clock feeds Core, Core feeds AHB, and AHB feeds every APB
// domain.
type Domain uint8

const (
	DomainSys Domain = iota
	DomainCore
	DomainAHB
	DomainAPB1
	DomainAPB2
	DomainAPB3
	DomainAPB4

	NumDomains
)

var domainNames = [NumDomains]string{
	DomainSys:  "sys",
	DomainCore: "core",
	DomainAHB:  "ahb",
	DomainAPB1: "apb1",
	DomainAPB2: "apb2",
	DomainAPB3: "apb3",
	DomainAPB4: "apb4",
}

func (d Domain) String() string {
	if d >= NumDomains {
		return "invalid"
	}
	return domainNames[d]
}

// IsAPB reports whether d is one of the APB domains.
func (d Domain) IsAPB() bool { return d >= DomainAPB1 && d <= DomainAPB4 }

// BusSource returns the Source tag for a domain usable as a kernel-clock
// upstream (AHB and the APB domains).
func (d Domain) BusSource() Source {
	switch d {
	case DomainAHB:
		return SrcAHB
	case DomainAPB1:
		return SrcAPB1
	case DomainAPB2:
		return SrcAPB2
	case DomainAPB3:
		return SrcAPB3
	case DomainAPB4:
		return SrcAPB4
	default:
		return SrcNone
	}
}
