package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kestrelbank/kestrel"
	"github.com/kestrelbank/kestrel/api/middleware"
	"github.com/kestrelbank/kestrel/config"
	"github.com/kestrelbank/kestrel/internal/apierror"
)

// Api is the HTTP boundary over the Kestrel service. Responses share one
// envelope: {"status": ..., "result": ...} on success and
// {"status": ..., "error": {"code", "description"}} on failure.
type Api struct {
	kestrel *kestrel.Kestrel
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/new-bank-account", a.CreateAccount)

	authed := router.Group("/", middleware.BasicAuthMiddleware())
	authed.POST("/send-money", a.SendMoney)
	authed.DELETE("/delete-account", a.DeleteAccount)
	authed.GET("/my-info", a.MyInfo)
	authed.GET("/transaction-info", a.TransactionInfo)
	authed.GET("/transaction-history", a.TransactionHistory)

	return a.router
}

func NewAPI(k *kestrel.Kestrel) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{kestrel: k, router: r}
}

// caller returns the credentials stashed by the basic auth middleware.
func caller(c *gin.Context) (username, secret string) {
	return c.GetString(middleware.UsernameKey), c.GetString(middleware.SecretKey)
}

func respondSuccess(c *gin.Context, status int, result interface{}) {
	if result == nil {
		c.JSON(status, gin.H{"status": "success"})
		return
	}
	c.JSON(status, gin.H{"status": "success", "result": result})
}

func respondError(c *gin.Context, err error) {
	apiErr, ok := err.(apierror.APIError)
	if !ok {
		apiErr = apierror.NewAPIError(apierror.ErrInternalServer, "Internal server error.", err)
	}
	c.JSON(apierror.MapErrorToHTTPStatus(apiErr), gin.H{"status": "error", "error": apiErr})
}

func respondBadRequest(c *gin.Context, code apierror.ErrorCode, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status": "error",
		"error":  apierror.NewAPIError(code, message, nil),
	})
}
