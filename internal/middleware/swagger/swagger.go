package swagger

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/iwtcode/brotherAdapter/docs"
)

// Config содержит настройки для Swagger
type Config struct {
	Enabled bool
	Path    string
	// Host переопределяет адрес в документации, например "cnc-gw:7878".
	Host string
}

// Setup регистрирует UI документации и перенаправление с корня раздела на index.html.
func Setup(r *gin.Engine, cfg *Config) {
	if cfg == nil || !cfg.Enabled {
		return
	}
	path := "/" + strings.Trim(cfg.Path, "/")
	if cfg.Host != "" {
		docs.SwaggerInfo.Host = cfg.Host
	}

	r.GET(path, func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, path+"/index.html")
	})
	r.GET(path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
		ginSwagger.DocExpansion("list"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}
