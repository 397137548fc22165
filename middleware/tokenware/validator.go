package tokenware

import (
	"github.com/golang-jwt/jwt/v5"
)

// keyFuncValidator builds a fallback TokenValidator from the configured key
// material. Used when the caller wires keys instead of a validator service.
func keyFuncValidator(keyFn jwt.Keyfunc) TokenValidator {
	return ValidatorFunc(func(tokenString string) (AuthClaims, error) {
		token, err := jwt.Parse(tokenString, keyFn)
		if err != nil {
			return nil, err
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			return nil, ErrJWTMissingOrMalformed
		}

		return mapClaims(claims), nil
	})
}

// mapClaims adapts raw jwt.MapClaims to the AuthClaims surface.
type mapClaims jwt.MapClaims

func (m mapClaims) Subject() string {
	return m.str("sub")
}

func (m mapClaims) UserID() string {
	if uid := m.str("uid"); uid != "" {
		return uid
	}
	return m.str("sub")
}

func (m mapClaims) DisplayName() string {
	return m.str("name")
}

func (m mapClaims) RoleCode() string {
	return m.str("role")
}

func (m mapClaims) Authorities() []string {
	raw, ok := m["authorities"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (m mapClaims) TokenKind() string {
	if kind := m.str("typ"); kind != "" {
		return kind
	}
	return "access"
}

func (m mapClaims) str(key string) string {
	v, ok := m[key].(string)
	if !ok {
		return ""
	}
	return v
}

var _ AuthClaims = (mapClaims)(nil)
