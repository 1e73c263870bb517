package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_LoadingAlwaysRendersPlaceholder(t *testing.T) {
	for _, cap := range []Capability{CapNone, CapAuthenticated, CapAdminOnly} {
		d := Decide(Session{State: Loading}, cap)

		assert.True(t, d.Render)
		assert.True(t, d.Placeholder)
		assert.Empty(t, d.RedirectTo)
	}
}

func TestDecide_Table(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		cap  Capability
		want Decision
	}{
		{
			name: "неаутентифицированный на публичном маршруте",
			sess: Session{State: Unauthenticated},
			cap:  CapNone,
			want: Decision{Render: true},
		},
		{
			name: "неаутентифицированный на защищенном маршруте",
			sess: Session{State: Unauthenticated},
			cap:  CapAuthenticated,
			want: Decision{RedirectTo: AuthPath},
		},
		{
			name: "неаутентифицированный на админском маршруте",
			sess: Session{State: Unauthenticated},
			cap:  CapAdminOnly,
			want: Decision{RedirectTo: AuthPath},
		},
		{
			name: "аутентифицированный на защищенном маршруте",
			sess: Session{State: Authenticated},
			cap:  CapAuthenticated,
			want: Decision{Render: true},
		},
		{
			name: "не-админ на админском маршруте",
			sess: Session{State: Authenticated, IsAdmin: false},
			cap:  CapAdminOnly,
			want: Decision{RedirectTo: HomePath},
		},
		{
			name: "админ на админском маршруте",
			sess: Session{State: Authenticated, IsAdmin: true},
			cap:  CapAdminOnly,
			want: Decision{Render: true},
		},
		{
			name: "аутентифицированный на публичном маршруте",
			sess: Session{State: Authenticated},
			cap:  CapNone,
			want: Decision{Render: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.sess, tt.cap))
		})
	}
}

func TestDecide_Deterministic(t *testing.T) {
	sess := Session{State: Authenticated, IsAdmin: true}

	first := Decide(sess, CapAdminOnly)
	second := Decide(sess, CapAdminOnly)

	assert.Equal(t, first, second)
}

// После выхода из системы состояние становится Unauthenticated, и любой
// ранее доступный защищенный маршрут дает редирект на /auth.
func TestDecide_AfterSignOut(t *testing.T) {
	before := Decide(Session{State: Authenticated}, CapAuthenticated)
	assert.True(t, before.Render)

	after := Decide(Session{State: Unauthenticated}, CapAuthenticated)
	assert.Equal(t, AuthPath, after.RedirectTo)
}
