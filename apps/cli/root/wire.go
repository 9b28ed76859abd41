package root

import (
	"github.com/fitstack/gymgate/apps/cli/cmd/bootstrap"
	"github.com/fitstack/gymgate/apps/cli/cmd/gym"
)

func init() {
	Root().AddCommand(bootstrap.Command())
	Root().AddCommand(gym.Command())
}
