package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ActionGoalUpdates は目標進捗履歴取得リクエストに対するノンスのアクション名。
const ActionGoalUpdates = "goal-updates"

// DefaultNonceTTL はノンスの既定有効期間。
const DefaultNonceTTL = 12 * time.Hour

// ErrInvalidNonce はノンスの検証に失敗したことを表す。
var ErrInvalidNonce = errors.New("invalid nonce")

// NonceIssuer はページ描画時に埋め込むノンスを発行・検証する。
// ノンスはHS256で署名したJWTで、aud=アクション名、sub=閲覧者ID、expを持つ。
type NonceIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewNonceIssuer はNonceIssuerを生成する。ttlが0以下の場合は既定値を使う。
func NewNonceIssuer(secret string, ttl time.Duration) (*NonceIssuer, error) {
	if secret == "" {
		return nil, errors.New("nonce secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultNonceTTL
	}
	return &NonceIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue は閲覧者とアクションに紐づくノンスを発行する。
func (n *NonceIssuer) Issue(viewerID int64, action string) (string, error) {
	now := n.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(viewerID, 10),
		Audience:  jwt.ClaimStrings{action},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(n.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(n.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign nonce: %w", err)
	}
	return signed, nil
}

// Verify はノンスを検証し、発行時の閲覧者IDを返す。
// 署名・有効期限・アクションのいずれかが不正な場合はErrInvalidNonceを返す。
func (n *NonceIssuer) Verify(nonce, action string) (int64, error) {
	if nonce == "" {
		return 0, ErrInvalidNonce
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(nonce, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return n.secret, nil
	},
		jwt.WithAudience(action),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(n.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidNonce, err)
	}

	viewerID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidNonce)
	}
	return viewerID, nil
}
