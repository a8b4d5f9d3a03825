package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"userapi/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupRoutes(r *gin.Engine) {
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) { abortWith(c, notFound()) })
	r.NoMethod(func(c *gin.Context) { abortWith(c, methodNotSupported()) })

	users := r.Group("/users")
	users.POST("/", tokenOptional(), requires(Create, "User"), registerHandler)
	users.GET("/token", basicRequired(), requires(Read, "User"), getTokenHandler)
	users.GET("/refresh/token", basicRequired(), requires(Update, "User"), refreshTokenHandler)
	users.GET("/confirm/:token", confirmHandler)
	users.POST("/forgot", forgotHandler)
	users.PUT("/recovery/:token", recoveryHandler)
	users.GET("/", tokenRequired(), requires(List, "User"), listUsersHandler)
	users.GET("/:id", tokenRequired(), requires(Read, "User"), readUserHandler)
	users.PUT("/:id", tokenRequired(), requires(Update, "User"), updateUserHandler)
	users.DELETE("/:id", tokenRequired(), requires(Delete, "User"), deleteUserHandler)
	users.GET("/:id/balance", tokenRequired(), requires(Read, "Wallet"), balanceHandler)
	users.GET("/:id/usage", tokenRequired(), requires(Read, "SMS"), usageHandler)
	users.GET("/:id/sms", tokenRequired(), requires(List, "SMS"), listUserSMSHandler)
}

// jsonBody decodes the request body into an untyped mapping for the codec.
// A non-JSON body is a bad request; "null" decodes to an empty mapping and is
// left for schema validation to reject.
func jsonBody(c *gin.Context) (map[string]any, bool) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		abortWith(c, badRequest())
		return nil, false
	}
	return data, true
}

// loadUser fetches an active user by the id path parameter.
func loadUser(c *gin.Context) (*models.User, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		abortWith(c, notFound())
		return nil, false
	}
	var user models.User
	if err := activeOnly(db).First(&user, "id = ?", id).Error; err != nil {
		abortWith(c, notFound())
		return nil, false
	}
	return &user, true
}

func registerHandler(c *gin.Context) {
	data, ok := jsonBody(c)
	if !ok {
		return
	}
	if apiErr := validatePayload(data, createUserRules); apiErr != nil {
		abortWith(c, apiErr)
		return
	}
	user := &models.User{}
	if err := models.ImportData(user, http.MethodPost, data); err != nil {
		abortWith(c, conflict(err.Error()))
		return
	}
	if err := db.Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			// lost the race after the optimistic existence check
			abortWith(c, conflict(uniqueMessage(err)))
			return
		}
		abortWith(c, serverError())
		return
	}

	// every account starts with a profile and a credited wallet
	principal := currentUser(c)
	name := user.Email
	if user.Username != nil {
		name = *user.Username
	}
	if err := createRecord(principal, &models.Profile{UserID: user.ID, Name: name}); err != nil {
		abortWith(c, serverError())
		return
	}
	if err := createRecord(principal, &models.Wallet{AccountID: user.ID, Amount: models.WelcomeCredit}); err != nil {
		abortWith(c, serverError())
		return
	}

	if token, err := generateTimedToken(user.Email, confirmSalt); err == nil {
		sendConfirmationMail(user.Email, token)
	}

	self := linkBuilder(c).Self(user)
	c.Header("Link", self)
	c.JSON(http.StatusCreated, gin.H{"self_url": self})
}

func uniqueMessage(err error) string {
	s := err.Error()
	switch {
	case strings.Contains(s, "username"):
		return "username already exists in the database"
	case strings.Contains(s, "email"):
		return "email already exists in the database"
	}
	return "already exists in the database"
}

func readUserHandler(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}
	if !ensure(currentUser(c), Read, "User", user) {
		abortWith(c, forbidden())
		return
	}
	c.JSON(http.StatusOK, models.ExportData(user, linkBuilder(c)))
}

func getTokenHandler(c *gin.Context) {
	token, err := generateAuthToken(currentUser(c))
	if err != nil {
		abortWith(c, serverError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// refreshTokenHandler retires the caller's current token and issues a new
// one: the literal token value joins the revoked set, the counter moves, and
// the re-signed token comes out different.
func refreshTokenHandler(c *gin.Context) {
	user := currentUser(c)
	old, err := generateAuthToken(user)
	if err != nil {
		abortWith(c, serverError())
		return
	}
	if err := createRecord(user, &models.RevokedToken{Token: old, UserID: user.ID}); err != nil {
		abortWith(c, serverError())
		return
	}
	user.RevokedTokenCount++
	if err := db.Save(user).Error; err != nil {
		abortWith(c, serverError())
		return
	}
	fresh, err := generateAuthToken(user)
	if err != nil {
		abortWith(c, serverError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": fresh})
}

func updateUserHandler(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}
	if !ensure(currentUser(c), Update, "User", user) {
		abortWith(c, forbidden())
		return
	}
	data, ok := jsonBody(c)
	if !ok {
		return
	}
	if apiErr := validatePayload(data, updateUserRules); apiErr != nil {
		abortWith(c, apiErr)
		return
	}
	if err := models.ImportData(user, http.MethodPut, data); err != nil {
		abortWith(c, conflict(err.Error()))
		return
	}
	if err := db.Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			abortWith(c, conflict(uniqueMessage(err)))
			return
		}
		abortWith(c, serverError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"self_url": linkBuilder(c).Self(user)})
}

func deleteUserHandler(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}
	if !ensure(currentUser(c), Delete, "User", user) {
		abortWith(c, forbidden())
		return
	}
	// revoked tokens go with their owner, same as the FK cascade
	db.Where("user_id = ?", user.ID).Delete(&models.RevokedToken{})
	if err := db.Delete(user).Error; err != nil {
		abortWith(c, serverError())
		return
	}
	c.Status(http.StatusNoContent)
}

func listUsersHandler(c *gin.Context) {
	query := activeOnly(db.Model(&models.User{}))
	paginate(c, query, "users", func(q *gorm.DB) ([]models.Record, error) {
		var users []models.User
		if err := q.Find(&users).Error; err != nil {
			return nil, err
		}
		records := make([]models.Record, len(users))
		for i := range users {
			records[i] = &users[i]
		}
		return records, nil
	})
}

func confirmHandler(c *gin.Context) {
	email, err := verifyTimedToken(c.Param("token"), confirmSalt, confirmMaxAge)
	if errors.Is(err, errTokenExpired) {
		c.JSON(http.StatusOK, gin.H{"message": "the confirmation link has expired"})
		return
	}
	if err != nil {
		abortWith(c, notFound())
		return
	}
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		abortWith(c, notFound())
		return
	}
	if user.IsConfirmed() {
		c.JSON(http.StatusOK, gin.H{"message": "account already confirmed. Proceed to login"})
		return
	}
	now := time.Now().UTC()
	user.ConfirmedAt = &now
	if err := db.Save(&user).Error; err != nil {
		abortWith(c, serverError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "your account is now confirmed"})
}

func forgotHandler(c *gin.Context) {
	data, ok := jsonBody(c)
	if !ok {
		return
	}
	if apiErr := validatePayload(data, forgotRules); apiErr != nil {
		abortWith(c, apiErr)
		return
	}
	email := data["email"].(string)
	token, err := generateTimedToken(email, recoverySalt)
	if err != nil {
		abortWith(c, serverError())
		return
	}
	sendRecoveryMail(email, token)
	c.JSON(http.StatusOK, gin.H{"message": "a recovery link has been sent via email"})
}

func recoveryHandler(c *gin.Context) {
	data, ok := jsonBody(c)
	if !ok {
		return
	}
	if apiErr := validateRecovery(data); apiErr != nil {
		abortWith(c, apiErr)
		return
	}
	email, err := verifyTimedToken(c.Param("token"), recoverySalt, recoveryMaxAge)
	if errors.Is(err, errTokenExpired) {
		c.JSON(http.StatusOK, gin.H{"message": "the recovery link has expired"})
		return
	}
	if err != nil {
		abortWith(c, notFound())
		return
	}
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		abortWith(c, notFound())
		return
	}
	if err := user.SetPassword(data["password"].(string)); err != nil {
		abortWith(c, serverError())
		return
	}
	if err := db.Save(&user).Error; err != nil {
		abortWith(c, serverError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "your account coordinates are up-to-date"})
}

func balanceHandler(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}
	var wallet models.Wallet
	if err := db.First(&wallet, "account_id = ?", user.ID).Error; err != nil {
		abortWith(c, notFound())
		return
	}
	if !ensure(currentUser(c), Read, "Wallet", &wallet) {
		abortWith(c, forbidden())
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": wallet.Amount})
}

func usageHandler(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}
	if !ensure(currentUser(c), Read, "SMS", &models.SMS{AccountID: user.ID}) {
		abortWith(c, forbidden())
		return
	}
	days := intQuery(c, "days", 7)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -days)
	to := today.AddDate(0, 0, 1)

	window := db.Model(&models.SMS{}).
		Where("account_id = ? AND created_at >= ? AND created_at < ?", user.ID, from, to)
	count := func(status string) int64 {
		var n int64
		window.Session(&gorm.Session{}).Where("status = ?", status).Count(&n)
		return n
	}
	var total int64
	window.Session(&gorm.Session{}).Count(&total)

	c.JSON(http.StatusOK, gin.H{
		"days":        days,
		"from":        from.Format(http.TimeFormat),
		"to":          to.Format(http.TimeFormat),
		"sms_count":   total,
		"delivered":   count(models.StatusDelivered),
		"expired":     count(models.StatusExpired),
		"undelivered": count(models.StatusUndelivered),
	})
}

func listUserSMSHandler(c *gin.Context) {
	user, ok := loadUser(c)
	if !ok {
		return
	}
	if !ensure(currentUser(c), List, "SMS", &models.SMS{AccountID: user.ID}) {
		abortWith(c, forbidden())
		return
	}
	query := db.Model(&models.SMS{}).Where("account_id = ?", user.ID)
	paginate(c, query, "sms", func(q *gorm.DB) ([]models.Record, error) {
		var messages []models.SMS
		if err := q.Find(&messages).Error; err != nil {
			return nil, err
		}
		records := make([]models.Record, len(messages))
		for i := range messages {
			records[i] = &messages[i]
		}
		return records, nil
	})
}
