package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sistema-educativo/alumnos-service/internal/services"
	"github.com/sistema-educativo/alumnos-service/internal/utils"
)

const (
	serviceName    = "Sistema de Gestión Educativa API"
	serviceVersion = "1.0.0"
)

type HandlerManager struct {
	alumnoHandler      *AlumnoHandler
	importacionHandler *ImportacionHandler
	serviceManager     services.ServiceManager
	logger             utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	maxImportFileSize int64,
) *HandlerManager {
	return &HandlerManager{
		alumnoHandler:      NewAlumnoHandler(serviceManager.Alumno(), logger),
		importacionHandler: NewImportacionHandler(serviceManager.ImportExport(), maxImportFileSize, logger),
		serviceManager:     serviceManager,
		logger:             logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		alumnos := v1.Group("/alumnos")
		{
			// The collection answers with and without the trailing slash
			alumnos.GET("", hm.alumnoHandler.ListAlumnos)
			alumnos.GET("/", hm.alumnoHandler.ListAlumnos)
			alumnos.POST("", hm.alumnoHandler.CreateAlumno)
			alumnos.POST("/", hm.alumnoHandler.CreateAlumno)

			alumnos.GET("/estadisticas/general", hm.alumnoHandler.GetEstadisticas)
			alumnos.GET("/matricula/:matricula", hm.alumnoHandler.GetAlumnoByMatricula)

			alumnos.GET("/:id", hm.alumnoHandler.GetAlumno)
			alumnos.PUT("/:id", hm.alumnoHandler.UpdateAlumno)
			alumnos.DELETE("/:id", hm.alumnoHandler.DeleteAlumno)
		}

		importacion := v1.Group("/importacion")
		{
			importacion.POST("/importar-alumnos", hm.importacionHandler.ImportarAlumnos)
			importacion.GET("/plantilla-excel", hm.importacionHandler.DescargarPlantilla)
			importacion.GET("/exportar-alumnos", hm.importacionHandler.ExportarAlumnos)
		}
	}

	router.GET("/health", hm.healthCheck)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": serviceName,
			"version": serviceVersion,
		})
	})
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		utils.GetLogger(c, hm.logger).Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
