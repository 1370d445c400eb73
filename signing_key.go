package componente

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// MinimumKeyLengthBytes is the shortest signing key accepted for HMAC-SHA256
// (256 bits).
const MinimumKeyLengthBytes = 32

// KeyState names the path the signing key resolution took at startup.
type KeyState string

const (
	// KeyStateConfigured means the externally supplied key was adopted.
	KeyStateConfigured KeyState = "configured"
	// KeyStateGenerated means no usable key was supplied and a fresh one
	// was generated.
	KeyStateGenerated KeyState = "generated"
	// KeyStateFallback means an unexpected failure occurred and a raw
	// random key was derived as a last resort.
	KeyStateFallback KeyState = "fallback"
)

// signingKey is the process wide key material. It is resolved exactly once
// at startup and never re-derived afterwards.
type signingKey struct {
	material []byte
	state    KeyState
}

// resolveSigningKey picks the signing key for the process. A configured
// secret is base64 decoded and adopted only when it meets the minimum
// strength threshold; otherwise a fresh key is generated and logged once so
// operators can persist it. The fallback path guarantees the key material is
// never left unset.
func resolveSigningKey(secret string, logger Logger) signingKey {
	logger = normalizeLogger(logger)

	if secret != "" {
		keyBytes, err := base64.StdEncoding.DecodeString(secret)
		if err != nil {
			logger.Error("Error al decodificar la clave JWT configurada: %v", err)
			return fallbackSigningKey(logger)
		}

		if len(keyBytes) >= MinimumKeyLengthBytes {
			logger.Info("JWT signing key inicializada correctamente desde la configuración.")
			return signingKey{material: keyBytes, state: KeyStateConfigured}
		}

		logger.Warn("La clave JWT proporcionada es demasiado débil (%d bytes). Se requieren al menos %d bytes.",
			len(keyBytes), MinimumKeyLengthBytes)
	}

	generated, err := generateKeyMaterial()
	if err != nil {
		logger.Error("Error al generar la clave de firma JWT: %v", err)
		return fallbackSigningKey(logger)
	}

	logger.Warn("Usando una clave JWT generada automáticamente. Para producción, configure una clave JWT fija.")
	logger.Info("Clave JWT generada: %s. Considere agregar esta clave a su configuración.",
		base64.StdEncoding.EncodeToString(generated))

	return signingKey{material: generated, state: KeyStateGenerated}
}

func generateKeyMaterial() ([]byte, error) {
	keyBytes := make([]byte, MinimumKeyLengthBytes)
	if _, err := rand.Read(keyBytes); err != nil {
		return nil, fmt.Errorf("crypto/rand: %w", err)
	}
	return keyBytes, nil
}

// fallbackSigningKey derives key material as a last resort. It never returns
// empty material, even when the platform entropy source is unavailable.
func fallbackSigningKey(logger Logger) signingKey {
	keyBytes := make([]byte, MinimumKeyLengthBytes)
	if _, err := rand.Read(keyBytes); err != nil {
		sum := sha256.Sum256([]byte(time.Now().Format(time.RFC3339Nano)))
		copy(keyBytes, sum[:])
	}
	logger.Info("Se ha generado una clave de firma de respaldo.")
	return signingKey{material: keyBytes, state: KeyStateFallback}
}
