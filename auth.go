package main

import (
	"errors"
	"time"

	"userapi/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Purpose salts keep the timed token families apart: a confirmation token can
// never be replayed as a recovery token.
const (
	confirmSalt  = "confirm"
	recoverySalt = "recovery"
)

var (
	errTokenInvalid = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

const principalKey = "principal"

// currentUser returns the principal the middlewares resolved for this
// request; the anonymous principal when authentication was optional and no
// credential was presented.
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(principalKey); ok {
		return v.(*models.User)
	}
	return anonymous()
}

func anonymous() *models.User {
	var anon models.User
	if err := db.First(&anon, "id = ?", models.AnonymousID).Error; err != nil {
		return &models.User{ID: models.AnonymousID}
	}
	return &anon
}

func hmacKeyfunc(key []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return key, nil
	}
}

// generateAuthToken issues the stateless bearer token for a user. The token
// carries the user id and the revoked-token counter at issue time and never
// expires; liveness is controlled by revocation, not TTL. Identical state
// signs to an identical token, which is what lets refresh record the literal
// value of the token being retired.
func generateAuthToken(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":                  u.ID,
		"revoked_token_count": u.RevokedTokenCount,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// verifyAuthToken resolves a bearer token to its user. A malformed or badly
// signed token resolves to no identity rather than an error. The caller still
// has to test the literal token against the holder's revoked set; the counter
// inside the claims is carried but not compared.
func verifyAuthToken(token string) *models.User {
	parsed, err := jwt.Parse(token, hmacKeyfunc(secretKey))
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return nil
	}
	var user models.User
	if err := db.First(&user, "id = ?", int(id)).Error; err != nil {
		return nil
	}
	return &user
}

func timedKey(salt string) []byte {
	return []byte(string(secretKey) + securitySalt + salt)
}

// generateTimedToken binds an email address into a signed token for the given
// purpose. The issue time travels in the claims; expiry is the verifier's
// decision.
func generateTimedToken(email, salt string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"iat":   time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(timedKey(salt))
}

// verifyTimedToken returns the bound email. Age is checked against the
// caller-supplied max age so one token family can serve call sites with
// different lifetimes; maxAge <= 0 means unbounded. An expired token is
// reported distinctly from a forged or malformed one.
func verifyTimedToken(token, salt string, maxAge time.Duration) (string, error) {
	parsed, err := jwt.Parse(token, hmacKeyfunc(timedKey(salt)))
	if err != nil || !parsed.Valid {
		return "", errTokenInvalid
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errTokenInvalid
	}
	email, _ := claims["email"].(string)
	iat, ok := claims["iat"].(float64)
	if email == "" || !ok {
		return "", errTokenInvalid
	}
	if maxAge > 0 && time.Since(time.Unix(int64(iat), 0)) > maxAge {
		return "", errTokenExpired
	}
	return email, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if len(header) < 8 || header[:7] != "Bearer " {
		return "", false
	}
	return header[7:], true
}

func resolveBearer(c *gin.Context) *models.User {
	token, ok := bearerToken(c)
	if !ok {
		return nil
	}
	user := verifyAuthToken(token)
	if user == nil || !user.Active {
		return nil
	}
	// a previously issued token whose literal value sits in the revoked set
	// is rejected even though its signature still verifies
	var revoked int64
	db.Model(&models.RevokedToken{}).
		Where("user_id = ? AND token = ?", user.ID, token).
		Count(&revoked)
	if revoked > 0 {
		return nil
	}
	return user
}

// tokenRequired authenticates the bearer token and installs the principal.
func tokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveBearer(c)
		if user == nil {
			abortWith(c, unauthorized())
			return
		}
		c.Set(principalKey, user)
		c.Next()
	}
}

// tokenOptional resolves a bearer token when one is presented and otherwise
// lets the request run as the anonymous principal. A presented-but-bad token
// is still rejected.
func tokenOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := bearerToken(c); !ok {
			c.Set(principalKey, anonymous())
			c.Next()
			return
		}
		user := resolveBearer(c)
		if user == nil {
			abortWith(c, unauthorized())
			return
		}
		c.Set(principalKey, user)
		c.Next()
	}
}

// basicRequired authenticates username/password credentials. A successful
// check counts as a login: the audit window rolls forward and the login
// counter increments.
func basicRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			abortWith(c, unauthorized())
			return
		}
		var user models.User
		err := db.Where("active = ?", true).
			First(&user, "username = ?", username).Error
		if err != nil || !user.VerifyPassword(password) {
			abortWith(c, unauthorized())
			return
		}
		now := time.Now().UTC()
		user.LastLoginAt, user.LastLoginIP = user.CurrentLoginAt, user.CurrentLoginIP
		user.CurrentLoginAt = &now
		user.CurrentLoginIP = c.ClientIP()
		user.LoginCount++
		db.Save(&user)
		c.Set(principalKey, &user)
		c.Next()
	}
}
