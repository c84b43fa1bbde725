package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el descriptor de principal de la
// aplicación. Role y los filtros personales viajan embebidos en el token para
// que el resolver de permisos pueda operar sin consultar la DB en cada request.
//
// Invariante (se fija al emitir el token): como máximo uno de SGAFilter /
// SGMFilter / RecruiterFilter es no vacío, según el rol del usuario.
type Claims struct {
	jwt.RegisteredClaims
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	Role            string `json:"role"` // admin|manager|sgm|sga|revops_admin|recruiter|capital_partner|viewer
	SGAFilter       string `json:"sga_filter,omitempty"`
	SGMFilter       string `json:"sgm_filter,omitempty"`
	RecruiterFilter string `json:"recruiter_filter,omitempty"`
}

// Descriptor campos del principal que se embeben en el token.
type Descriptor struct {
	UserID          string
	Email           string
	Role            string
	SGAFilter       string
	SGMFilter       string
	RecruiterFilter string
}

// Generate genera un token JWT firmado con el descriptor de principal completo.
func Generate(secret string, d Descriptor, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   d.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:          d.UserID,
		Email:           d.Email,
		Role:            d.Role,
		SGAFilter:       d.SGAFilter,
		SGMFilter:       d.SGMFilter,
		RecruiterFilter: d.RecruiterFilter,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el descriptor de principal.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Descriptor, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return &Descriptor{
		UserID:          claims.UserID,
		Email:           claims.Email,
		Role:            claims.Role,
		SGAFilter:       claims.SGAFilter,
		SGMFilter:       claims.SGMFilter,
		RecruiterFilter: claims.RecruiterFilter,
	}, nil
}
