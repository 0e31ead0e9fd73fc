package root

import (
	"github.com/freshfleet/backoffice/apps/cli/cmd/bootstrap"
	"github.com/freshfleet/backoffice/apps/cli/cmd/registrycmd"
)

func init() {
	Root().AddCommand(registrycmd.Command())
	Root().AddCommand(bootstrap.Command())
}
