package teamroster_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/hitoshi/teamroster/internal/fixture"
)

type composeService struct {
	Build       string            `yaml:"build"`
	Image       string            `yaml:"image"`
	Command     []string          `yaml:"command"`
	Profiles    []string          `yaml:"profiles"`
	Ports       []string          `yaml:"ports"`
	Environment map[string]string `yaml:"environment"`
	Networks    []string          `yaml:"networks"`
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Networks map[string]struct {
		Internal bool `yaml:"internal"`
	} `yaml:"networks"`
}

func loadCompose(t *testing.T) composeFile {
	t.Helper()
	data, err := os.ReadFile("docker-compose.yml")
	if err != nil {
		t.Fatalf("failed to read docker-compose.yml: %v", err)
	}
	var c composeFile
	if err := yaml.Unmarshal(data, &c); err != nil {
		t.Fatalf("failed to parse docker-compose.yml: %v", err)
	}
	return c
}

func dockerfileLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile("Dockerfile")
	if err != nil {
		t.Fatalf("failed to read Dockerfile: %v", err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ビルドコンテキストからCOPYするファイルは、ワイルドカードで任意にしたもの以外すべて存在すること
func TestDockerfile_CopySourcesExist(t *testing.T) {
	for _, line := range dockerfileLines(t) {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "COPY" || strings.HasPrefix(fields[1], "--from=") {
			continue
		}
		for _, src := range fields[1 : len(fields)-1] {
			if src == "." || strings.ContainsAny(src, "*?[") {
				continue
			}
			if _, err := os.Stat(filepath.Clean(src)); err != nil {
				t.Errorf("COPY source %q does not exist in the build context: %v", src, err)
			}
		}
	}
}

// 実行イメージはserveで起動し、同梱フィクスチャとhealthcheckサブコマンドを持つこと
func TestDockerfile_RuntimeImage(t *testing.T) {
	lines := dockerfileLines(t)

	var lastFrom int
	for i, line := range lines {
		if strings.HasPrefix(line, "FROM ") {
			lastFrom = i
		}
	}
	runtime := lines[lastFrom:]
	if !strings.Contains(runtime[0], "distroless") {
		t.Errorf("runtime stage should be distroless, got %q", runtime[0])
	}

	want := []string{
		"COPY fixtures /fixtures",
		`HEALTHCHECK --interval=30s --timeout=5s --retries=3 CMD ["/teamroster", "healthcheck"]`,
		`ENTRYPOINT ["/teamroster"]`,
		`CMD ["serve"]`,
	}
	for _, w := range want {
		if !slices.Contains(runtime, w) {
			t.Errorf("runtime stage should contain %q", w)
		}
	}
}

// NONCE_SECRETがないとserve・migrateとも設定読み込みで失敗するため、全アプリサービスに渡すこと
func TestDockerCompose_AppServicesCarryNonceSecret(t *testing.T) {
	c := loadCompose(t)

	for _, name := range []string{"api", "migrate", "demo"} {
		svc, ok := c.Services[name]
		if !ok {
			t.Errorf("service %q should be defined", name)
			continue
		}
		if svc.Build == "" {
			t.Errorf("%s should build the teamroster image", name)
		}
		if svc.Environment["NONCE_SECRET"] == "" {
			t.Errorf("%s should set NONCE_SECRET", name)
		}
	}
	if got := c.Services["migrate"].Command; !slices.Equal(got, []string{"migrate"}) {
		t.Errorf("migrate command = %v, want [migrate]", got)
	}
}

// apiはDB、demoはフィクスチャで動き、両方を同時に設定しないこと
func TestDockerCompose_BackendSelection(t *testing.T) {
	c := loadCompose(t)

	api := c.Services["api"]
	if api.Environment["DATABASE_URL"] == "" || api.Environment["FIXTURES_PATH"] != "" {
		t.Errorf("api should use DATABASE_URL only, env = %v", api.Environment)
	}

	demo := c.Services["demo"]
	if demo.Environment["FIXTURES_PATH"] != "/fixtures/roster.yaml" {
		t.Errorf("demo FIXTURES_PATH = %q, want the bundled fixture", demo.Environment["FIXTURES_PATH"])
	}
	if demo.Environment["DATABASE_URL"] != "" {
		t.Error("demo should not need a database")
	}
	if !slices.Contains(demo.Profiles, "demo") {
		t.Error("demo should only start with the demo profile")
	}
}

// ポートを公開するサービスだけがfrontendに参加し、DBとオブジェクトストレージは内部ネットワークに閉じること
func TestDockerCompose_Networks(t *testing.T) {
	c := loadCompose(t)

	if !c.Networks["backend"].Internal {
		t.Error("backend network should be internal")
	}
	for name, svc := range c.Services {
		exposed := len(svc.Ports) > 0
		onFrontend := slices.Contains(svc.Networks, "frontend")
		if exposed != onFrontend {
			t.Errorf("%s: ports=%v networks=%v", name, svc.Ports, svc.Networks)
		}
	}
	for _, name := range []string{"db", "minio"} {
		if !slices.Equal(c.Services[name].Networks, []string{"backend"}) {
			t.Errorf("%s should only join backend, got %v", name, c.Services[name].Networks)
		}
	}
}

// 同梱フィクスチャが読み込め、開発用セッションでログインできること
func TestBundledFixture_Loads(t *testing.T) {
	store, err := fixture.Load("fixtures/roster.yaml")
	if err != nil {
		t.Fatalf("fixture.Load: %v", err)
	}

	sess, err := store.FindSession(context.Background(), "dev-session-mia")
	if err != nil {
		t.Fatalf("FindSession: %v", err)
	}
	if sess == nil || sess.UserID != 1 {
		t.Fatalf("session = %+v, want user 1", sess)
	}

	teams, err := store.ListTeamsForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListTeamsForUser: %v", err)
	}
	if len(teams) == 0 {
		t.Error("fixture user 1 should belong to a team")
	}
}
