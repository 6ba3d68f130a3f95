package gitcli

import (
	"fmt"

	"github.com/devdeck/devdeck/internal/port/gitprovider"
)

func init() {
	gitprovider.Register(providerName, func(deps gitprovider.Deps) (gitprovider.Provider, error) {
		if deps.Runner == nil {
			return nil, fmt.Errorf("gitcli: deps.Runner is required")
		}
		return NewProvider(deps), nil
	})
}
