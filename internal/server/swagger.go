package server

import (
	"formfitness/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupSwagger serves the API document and UI under /swagger. An empty host
// makes the UI call whichever address served it.
func SetupSwagger(r *gin.Engine, host string) {
	docs.SwaggerInfo.Host = host
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))
}
