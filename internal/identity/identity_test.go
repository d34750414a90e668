package identity

import "testing"

func TestFromOAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    map[string]string
		want   *User
		wantOK bool
	}{
		{
			name:   "email and name present",
			raw:    map[string]string{"email": "dina@example.com", "name": "Dina", "login": "dina-skin"},
			want:   &User{Identifier: "dina@example.com", Name: "Dina"},
			wantOK: true,
		},
		{
			name:   "no email falls back to login address",
			raw:    map[string]string{"login": "octocat"},
			want:   &User{Identifier: "octocat@github.com", Name: "octocat"},
			wantOK: true,
		},
		{
			name:   "no name falls back to login",
			raw:    map[string]string{"email": "a@b.com", "login": "octocat"},
			want:   &User{Identifier: "a@b.com", Name: "octocat"},
			wantOK: true,
		},
		{
			name:   "no name and no login is anonymous",
			raw:    map[string]string{"email": "a@b.com"},
			want:   &User{Identifier: "a@b.com", Name: "Anonymous"},
			wantOK: true,
		},
		{
			name:   "neither email nor login rejected",
			raw:    map[string]string{"name": "Ghost"},
			wantOK: false,
		},
		{
			name:   "whitespace-only fields rejected",
			raw:    map[string]string{"email": "  ", "login": "\t"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := FromOAuth(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Identifier != tt.want.Identifier || got.Name != tt.want.Name {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
