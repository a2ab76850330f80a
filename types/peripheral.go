package types

// Peripheral identifies an on-chip peripheral with its own kernel-clock
// multiplexer and clock-domain gate.
type Peripheral uint8

const (
	Usart1 Peripheral = iota
	Usart2
	Spi1
	I2c1
	Sdmmc1
	Fdcan
	Adc
	Rng

	NumPeripherals
)

var peripheralNames = [NumPeripherals]string{
	Usart1: "usart1",
	Usart2: "usart2",
	Spi1:   "spi1",
	I2c1:   "i2c1",
	Sdmmc1: "sdmmc1",
	Fdcan:  "fdcan",
	Adc:    "adc",
	Rng:    "rng",
}

func (p Peripheral) String() string {
	if p >= NumPeripherals {
		return "invalid"
	}
	return peripheralNames[p]
}

// ParsePeripheral maps a name as used in plan files back to a Peripheral.
func ParsePeripheral(name string) (Peripheral, bool) {
	for i, n := range peripheralNames {
		if n == name {
			return Peripheral(i), true
		}
	}
	return NumPeripherals, false
}

// BusDomain returns the bus domain whose clock gates register access for
// the peripheral.
func (p Peripheral) BusDomain() Domain {
	switch p {
	case Usart1, Spi1:
		return DomainAPB2
	case Usart2, I2c1, Fdcan:
		return DomainAPB1
	case Sdmmc1, Rng:
		return DomainAHB
	case Adc:
		return DomainAPB4
	default:
		return NumDomains
	}
}
