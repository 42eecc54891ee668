package serial

import "fmt"

// ValidateConfig validates serial port configuration parameters.
// It expects a config that already went through withDefaults.
func ValidateConfig(cfg *Config) error {
	if cfg.Device == "" {
		return fmt.Errorf("%w: device path cannot be empty", ErrConfigFailed)
	}

	if _, err := BaudRate(cfg.BaudRate).bits(); err != nil {
		return err
	}

	if cfg.DataBits < DataBits5 || cfg.DataBits > DataBits8 {
		return fmt.Errorf("%w: data bits must be 5-8, got %d", ErrConfigFailed, cfg.DataBits)
	}

	switch cfg.Parity {
	case ParityNone, ParityOdd, ParityEven:
	default:
		return fmt.Errorf("%w: invalid parity value %d", ErrConfigFailed, cfg.Parity)
	}

	if cfg.StopBits != StopBits1 && cfg.StopBits != StopBits2 {
		return fmt.Errorf("%w: stop bits must be 1 or 2, got %d", ErrConfigFailed, cfg.StopBits)
	}

	return nil
}
