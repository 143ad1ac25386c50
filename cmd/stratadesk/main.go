// Command stratadesk runs the StrataDesk desktop state service.
package main

import (
	"context"

	"github.com/dalemusser/stratadesk/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	app.Run(context.Background(), bootstrap.Hooks)
}
