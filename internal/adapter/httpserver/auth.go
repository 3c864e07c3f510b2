package httpserver

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/emarketbank/jimmy-agent/internal/domain"
)

// Argon2Params defines parameters for Argon2id token hashing.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

var defaultArgon2Params = Argon2Params{
	Memory:      64 * 1024, // 64 MB
	Iterations:  3,
	Parallelism: 2,
	SaltLen:     16,
	KeyLen:      32,
}

// DefaultArgon2Params returns the hashing parameters used for stored tokens.
func DefaultArgon2Params() Argon2Params { return defaultArgon2Params }

// HashToken creates an Argon2id hash of the admin bearer token.
func HashToken(token string, params Argon2Params) (string, error) {
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(token), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLen)

	// Format: argon2id$iterations$memory$parallelism$salt$hash (base64 encoded)
	encoded := fmt.Sprintf("argon2id$%d$%d$%d$%s$%s",
		params.Iterations,
		params.Memory,
		params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// VerifyToken verifies a bearer token against its Argon2id hash.
func VerifyToken(token, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "argon2id" {
		return false
	}
	iters, err1 := parseUint32(parts[1])
	mem, err2 := parseUint32(parts[2])
	par64, err3 := parseUint32(parts[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	// Clamp parallelism to uint8 range to avoid overflow.
	var par uint8
	if par64 > math.MaxUint8 {
		par = math.MaxUint8
	} else {
		par = uint8(par64)
	}
	keyLen := defaultArgon2Params.KeyLen
	actualHash := argon2.IDKey([]byte(token), salt, iters, mem, par, keyLen)
	return subtle.ConstantTimeCompare(actualHash, expectedHash) == 1
}

// AdminGuard protects the admin config surface. Requests must carry an
// allowed Origin (browser calls) and a bearer token matching either the
// stored rotatable hash or, while no hash exists yet, the bootstrap token
// from the environment.
func (s *Server) AdminGuard(allowOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" && !originAllowed(origin, allowOrigins) {
				writeError(w, fmt.Errorf("%w: origin %q", domain.ErrForbiddenOrigin, origin), nil)
				return
			}

			token := bearerToken(r)
			if token == "" {
				writeError(w, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthorized), nil)
				return
			}
			if !s.adminTokenValid(r, token) {
				writeError(w, fmt.Errorf("%w: invalid bearer token", domain.ErrUnauthorized), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) adminTokenValid(r *http.Request, token string) bool {
	hash, err := s.Store.AdminTokenHash(r.Context())
	if err == nil && hash != "" {
		return VerifyToken(token, hash)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false
	}
	// No stored hash yet: accept the bootstrap token so the first rotate
	// call can establish one.
	if s.Cfg.AdminToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.Cfg.AdminToken)) == 1
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimRight(a, "/"), strings.TrimRight(origin, "/")) {
			return true
		}
	}
	return false
}

// parseUint32 parses a decimal string into uint32; returns error on failure.
func parseUint32(s string) (uint32, error) {
	x, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse")
	}
	return uint32(x), nil
}
