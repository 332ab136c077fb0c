package commands

import (
	"errors"
	"fmt"

	"github.com/coincontrol-dev/coincontrol/internal/ledger"
)

// explain adds a hint for errors the user can fix from the command line.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrInvalidAmount):
		return fmt.Errorf("%w (use digits with an optional decimal point, no commas or signs)", err)
	case errors.Is(err, ledger.ErrInvalidMonth):
		return fmt.Errorf("%w (use a month name such as \"march\")", err)
	case errors.Is(err, ledger.ErrAlreadyExists):
		return fmt.Errorf("%w (use \"edit\" to change its amount)", err)
	case errors.Is(err, ledger.ErrNotFound):
		return fmt.Errorf("%w (see \"list\" for recorded names)", err)
	case errors.Is(err, ledger.ErrCorruptRecord):
		return fmt.Errorf("%w (run \"check\" after fixing the file by hand)", err)
	}
	return err
}
