// @title Brother MTConnect Adapter API
// @version 1.0.0
// @description MTConnect агент для станков Brother: probe, current, sample и состояние опроса.
// @host localhost:7878
// @BasePath /
package main

import "github.com/iwtcode/brotherAdapter/internal/app"

func main() {
	app.New().Run()
}
