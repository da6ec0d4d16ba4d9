package handlers

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wingfest/backend/internal/media"
	"github.com/wingfest/backend/internal/middleware"
	"github.com/wingfest/backend/internal/models"
)

const testSecret = "handlers-test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.JudgeRole{},
		&models.Category{},
		&models.Bird{},
		&models.VisitorVote{},
		&models.JudgeEvaluation{},
	))

	return db
}

// newTestRouter wires the handlers into the same route layout the server
// registers, against a throwaway database and media dir.
func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	gin.SetMode(gin.TestMode)

	mediaStore, err := media.NewStore(t.TempDir())
	require.NoError(t, err)

	handler := NewHandler(db, mediaStore)
	isJudge := middleware.JudgeRoleCheck(db)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/register", handler.Auth.Register)
	api.POST("/login", handler.Auth.Login)
	api.GET("/categories", handler.Category.GetCategories)
	api.GET("/categories/:id", handler.Category.GetCategory)
	api.GET("/birds/:id", middleware.OptionalAuth(), handler.Bird.GetBird)
	api.GET("/results", handler.Results.Results)
	api.GET("/home", handler.Results.Home)
	api.GET("/users/:id", handler.User.GetUserProfile)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/me", handler.Auth.GetMe)
	protected.POST("/categories", handler.Category.CreateCategory)
	protected.POST("/birds", handler.Bird.UploadBird)
	protected.POST("/birds/:id/vote", handler.Bird.VoteBird)

	judge := protected.Group("")
	judge.Use(middleware.RequireJudge(isJudge))
	judge.PUT("/birds/:id/evaluation", handler.Judge.SubmitEvaluation)
	judge.GET("/judge/worklist", handler.Judge.Worklist)

	return r
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func makeJudge(t *testing.T, db *gorm.DB, user models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.JudgeRole{UserID: user.ID}).Error)
}

func createCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func createBird(t *testing.T, db *gorm.DB, name string, ownerID, categoryID int) models.Bird {
	t.Helper()
	bird := models.Bird{Name: name, OwnerID: ownerID, CategoryID: categoryID}
	require.NoError(t, db.Create(&bird).Error)
	return bird
}

func authToken(t *testing.T, user models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}
