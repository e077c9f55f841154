package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anneomcl/TeamWolverine/internal/auth"
	"github.com/anneomcl/TeamWolverine/internal/garden"
	"github.com/anneomcl/TeamWolverine/internal/logging"
	"github.com/anneomcl/TeamWolverine/internal/middleware"
	"github.com/anneomcl/TeamWolverine/internal/vec"
	"github.com/anneomcl/TeamWolverine/internal/world"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Version версия сервера в /api/server
const Version = "v0.1.0"

const claimsKey = "claims"

// RestServer REST API управления садом
type RestServer struct {
	router  *gin.Engine
	server  *http.Server
	sim     *world.Simulation
	signer  *auth.Signer
	metrics *ServerMetrics
	logger  *logging.Logger
	timeout time.Duration
}

// Config содержит конфигурацию REST сервера
type Config struct {
	Port           string               // адрес вида ":8088"
	Simulation     *world.Simulation    // симуляция сада
	Signer         *auth.Signer         // проверка токенов администратора
	Logger         *logging.Logger      // nil: логгер по умолчанию
	Registry       *prometheus.Registry // nil: дефолтный регистр
	RequestTimeout time.Duration        // ожидание команды симуляции
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Logger == nil {
		config.Logger = logging.Default()
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 2 * time.Second
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// === Observability middleware ===
	router.Use(middleware.NewRequestLogger(config.Logger).Handler())
	router.Use(otelgin.Middleware("garden_api"))

	promMw := middleware.NewPrometheusMiddleware("garden_api", config.Registry)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	rs := &RestServer{
		router:  router,
		sim:     config.Simulation,
		signer:  config.Signer,
		metrics: NewServerMetrics(),
		logger:  config.Logger,
		timeout: config.RequestTimeout,
	}
	rs.server = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rs.setupRoutes()
	return rs
}

// Handler http.Handler сервера
func (rs *RestServer) Handler() http.Handler { return rs.router }

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	// CORS
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	{
		api.GET("/state", rs.handleState)
		api.GET("/objects/:id", rs.handleGetObject)
		api.POST("/spawn", rs.handleSpawn)
		api.POST("/category", rs.handleSelectCategory)
		api.GET("/quota/:name", rs.handleQuota)
		api.GET("/journal", rs.handleJournal)
		api.GET("/server", rs.handleServerInfo)
	}

	// Административные эндпоинты
	admin := api.Group("/")
	admin.Use(rs.jwtMiddleware(), rs.adminMiddleware())
	{
		admin.PUT("/probabilities/:category", rs.handleSetProbabilities)
		admin.POST("/animals", rs.handleSpawnAnimal)
		admin.DELETE("/animals/:id", rs.handleRemoveAnimal)
		admin.DELETE("/objects/:id", rs.handleRemoveObject)
	}
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SpawnRequest клик игрока по миру. Hit по умолчанию true.
type SpawnRequest struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Hit *bool   `json:"hit"`
}

// SpawnResponse результат попытки посадки
type SpawnResponse struct {
	Spawned bool               `json:"spawned"`
	Object  *garden.ObjectInfo `json:"object,omitempty"`
}

// CategoryRequest выбор активной категории
type CategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// ProbabilitiesRequest новые вероятности уровней редкости
type ProbabilitiesRequest struct {
	Common   uint8 `json:"common" binding:"lte=100"`
	Fancy    uint8 `json:"fancy" binding:"lte=100"`
	Mythical uint8 `json:"mythical" binding:"lte=100"`
}

// AnimalRequest запрос на выпуск животного
type AnimalRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// QuotaResponse прогресс квоты правила
type QuotaResponse struct {
	Rule      string `json:"rule"`
	Count     uint   `json:"count"`
	Required  uint   `json:"required"`
	Satisfied bool   `json:"satisfied"`
}

// commandContext ограничивает ожидание команды симуляции
func (rs *RestServer) commandContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), rs.timeout)
}

// respondError отображает ошибки движка и симуляции в HTTP-статусы
func (rs *RestServer) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, garden.ErrUnknownObject),
		errors.Is(err, garden.ErrUnknownAnimal),
		errors.Is(err, garden.ErrUnknownRule):
		status = http.StatusNotFound
	case errors.Is(err, garden.ErrUnknownCategory):
		status = http.StatusBadRequest
	case errors.Is(err, world.ErrExternalCreature):
		status = http.StatusConflict
	case errors.Is(err, world.ErrStopped):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		rs.logger.Error("Ошибка обработки %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, GenericResponse{Success: false, Message: err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: message})
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	status := "ok"
	select {
	case <-rs.sim.Stopped():
		status = "stopped"
	default:
	}
	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"time":   time.Now().Unix(),
	})
}

// handleState полный снимок сада
func (rs *RestServer) handleState(c *gin.Context) {
	ctx, cancel := rs.commandContext(c)
	defer cancel()

	snapshot, err := rs.sim.Snapshot(ctx)
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Состояние сада", Data: snapshot})
}

// handleGetObject снимок одного объекта
func (rs *RestServer) handleGetObject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Некорректный ID объекта")
		return
	}

	ctx, cancel := rs.commandContext(c)
	defer cancel()

	var info garden.ObjectInfo
	err = rs.sim.Do(ctx, func(pm *garden.PlacementManager) error {
		var ok bool
		if info, ok = pm.Object(garden.ObjectID(id)); !ok {
			return fmt.Errorf("%w: %d", garden.ErrUnknownObject, id)
		}
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Объект найден", Data: info})
}

// handleSpawn посадка объекта выбранной категории в точку клика
func (rs *RestServer) handleSpawn(c *gin.Context) {
	var req SpawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: "+err.Error())
		return
	}
	hit := garden.HitResult{Hit: true, Location: vec.Vec2Float{X: req.X, Y: req.Y}}
	if req.Hit != nil {
		hit.Hit = *req.Hit
	}

	ctx, cancel := rs.commandContext(c)
	defer cancel()

	var resp SpawnResponse
	err := rs.sim.Do(ctx, func(pm *garden.PlacementManager) error {
		id, ok := pm.SpawnAt(hit)
		if !ok {
			return nil
		}
		if info, found := pm.Object(id); found {
			resp.Spawned = true
			resp.Object = &info
		}
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}

	message := "Объект посажен"
	if !resp.Spawned {
		message = "Посадка не выполнена"
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: message, Data: resp})
}

// handleSelectCategory смена категории для следующих посадок
func (rs *RestServer) handleSelectCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: "+err.Error())
		return
	}
	category, err := garden.ParseCategory(req.Category)
	if err != nil {
		rs.respondError(c, err)
		return
	}

	ctx, cancel := rs.commandContext(c)
	defer cancel()

	err = rs.sim.Do(ctx, func(pm *garden.PlacementManager) error {
		return pm.SelectCategory(category)
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Категория выбрана", Data: gin.H{"category": category}})
}

// handleQuota прогресс квоты правила
func (rs *RestServer) handleQuota(c *gin.Context) {
	name := c.Param("name")

	ctx, cancel := rs.commandContext(c)
	defer cancel()

	resp := QuotaResponse{Rule: name}
	err := rs.sim.Do(ctx, func(pm *garden.PlacementManager) error {
		count, required, err := pm.QuotaProgress(name)
		if err != nil {
			return err
		}
		resp.Count, resp.Required = count, required
		resp.Satisfied = count >= required
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Прогресс квоты", Data: resp})
}

// handleJournal открытые варианты
func (rs *RestServer) handleJournal(c *gin.Context) {
	ctx, cancel := rs.commandContext(c)
	defer cancel()

	entries, err := rs.sim.Journal(ctx)
	if err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Журнал открытий",
		Data: gin.H{
			"entries": entries,
			"total":   len(entries),
		},
	})
}

// handleServerInfo возвращает информацию о сервере
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data:    rs.metrics.Stats(Version),
	})
}

// handleSetProbabilities меняет вероятности уровней редкости категории
func (rs *RestServer) handleSetProbabilities(c *gin.Context) {
	category, err := garden.ParseCategory(c.Param("category"))
	if err != nil {
		rs.respondError(c, err)
		return
	}
	var req ProbabilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: "+err.Error())
		return
	}

	ctx, cancel := rs.commandContext(c)
	defer cancel()

	var applied garden.TierProbabilities
	err = rs.sim.Do(ctx, func(pm *garden.PlacementManager) error {
		if err := pm.ChangeSpawnProbabilities(category, req.Common, req.Fancy, req.Mythical); err != nil {
			return err
		}
		applied = pm.SpawnProbabilities(category)
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}

	rs.logger.Info("🎲 Вероятности %s изменены: %d/%d/%d (%s)", category, req.Common, req.Fancy, req.Mythical, subject(c))
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Вероятности обновлены", Data: applied})
}

// handleSpawnAnimal выпускает животное на случайный проходимый тайл
func (rs *RestServer) handleSpawnAnimal(c *gin.Context) {
	var req AnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: "+err.Error())
		return
	}

	ctx, cancel := rs.commandContext(c)
	defer cancel()

	var (
		id      garden.AnimalID
		spawned bool
	)
	err := rs.sim.Do(ctx, func(pm *garden.PlacementManager) error {
		id, spawned = pm.SpawnAnimal(req.Kind)
		return nil
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}
	if !spawned {
		c.JSON(http.StatusUnprocessableEntity, GenericResponse{Success: false, Message: "Животное не выпущено"})
		return
	}
	c.JSON(http.StatusCreated, GenericResponse{Success: true, Message: "Животное выпущено", Data: gin.H{"id": id, "kind": req.Kind}})
}

// handleRemoveAnimal помечает животное к удалению
func (rs *RestServer) handleRemoveAnimal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Некорректный ID животного")
		return
	}

	ctx, cancel := rs.commandContext(c)
	defer cancel()

	if err := rs.sim.RemoveAnimal(ctx, garden.AnimalID(id)); err != nil {
		rs.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, GenericResponse{Success: true, Message: "Животное будет убрано на следующем тике"})
}

// handleRemoveObject убирает объект из симуляции
func (rs *RestServer) handleRemoveObject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Некорректный ID объекта")
		return
	}

	ctx, cancel := rs.commandContext(c)
	defer cancel()

	err = rs.sim.Do(ctx, func(pm *garden.PlacementManager) error {
		return pm.RemoveObject(garden.ObjectID(id))
	})
	if err != nil {
		rs.respondError(c, err)
		return
	}

	rs.logger.Info("🗑️ Объект %d удалён (%s)", id, subject(c))
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Объект удалён"})
}

// jwtMiddleware проверяет Bearer-токен
func (rs *RestServer) jwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, GenericResponse{Success: false, Message: "Требуется токен авторизации"})
			return
		}
		if rs.signer == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, GenericResponse{Success: false, Message: "Аутентификация не настроена"})
			return
		}

		claims, err := rs.signer.Validate(token)
		if err != nil {
			rs.logger.Debug("Отклонён токен: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, GenericResponse{Success: false, Message: "Недействительный токен"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// adminMiddleware пропускает только администраторов
func (rs *RestServer) adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get(claimsKey)
		claims, ok := value.(*auth.Claims)
		if !ok || !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, GenericResponse{Success: false, Message: "Требуются права администратора"})
			return
		}
		c.Next()
	}
}

func subject(c *gin.Context) string {
	if value, ok := c.Get(claimsKey); ok {
		if claims, ok := value.(*auth.Claims); ok {
			return claims.Subject
		}
	}
	return "anonymous"
}

// Start запускает REST сервер; блокирует до Stop
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API слушает %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop корректно останавливает сервер
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}
