package internal_test

import (
	"time"

	"github.com/frahmantamala/leave-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	return &internal.Config{
		App: internal.AppConfig{Name: "leave-management", Env: internal.EnvDevelopment},
		Server: internal.ServerConfig{
			Port:              8080,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{
			Driver:          internal.DriverSQLite,
			Source:          "file:leave.db",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: internal.SecurityConfig{
			JWTSecret:   "0123456789abcdef0123456789abcdef",
			BCryptCost:  10,
			AdminEmails: []string{"admin@co.com"},
		},
		Observability: internal.ObservabilityConfig{
			Logging: internal.LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("rejects a short jwt secret", func() {
		cfg := validConfig()
		cfg.Security.JWTSecret = "short"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("JWTSecret")))
	})

	It("rejects an unknown database driver", func() {
		cfg := validConfig()
		cfg.Database.Driver = "mysql"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("Driver")))
	})

	It("rejects a malformed admin email", func() {
		cfg := validConfig()
		cfg.Security.AdminEmails = []string{"not-an-email"}
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("runs the cross-field checks", func() {
		cfg := validConfig()
		cfg.Database.MaxIdleConns = 10
		cfg.Server.ReadTimeout = time.Second
		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("max_idle_conns")))
		Expect(err).To(MatchError(ContainSubstring("read_timeout")))
	})

	It("requires a metrics path only when metrics are enabled", func() {
		cfg := validConfig()
		cfg.Observability.Metrics.Enabled = true
		Expect(cfg.Validate()).To(HaveOccurred())

		cfg.Observability.Metrics.Path = "/metrics"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("normalizes the admin allow-list", func() {
		s := internal.SecurityConfig{AdminEmails: []string{" Boss@Co.com ", "", "hr@co.com"}}
		Expect(s.NormalizedAdminEmails()).To(Equal([]string{"boss@co.com", "hr@co.com"}))
	})

	It("splits allowed origins", func() {
		s := internal.ServerConfig{AllowedOrigins: "http://a.com, http://b.com ,"}
		Expect(s.Origins()).To(Equal([]string{"http://a.com", "http://b.com"}))
	})

	Describe("LoadConfigFromEnv", func() {
		It("reads plain environment variables", func() {
			GinkgoT().Setenv("DATABASE_DRIVER", "sqlite")
			GinkgoT().Setenv("ADMIN_EMAILS", "a@co.com, b@co.com")
			GinkgoT().Setenv("LOGIN_RATE_PER_MINUTE", "7")
			GinkgoT().Setenv("HTTP_READ_TIMEOUT", "20s")

			cfg := internal.LoadConfigFromEnv()
			Expect(cfg.Database.Driver).To(Equal("sqlite"))
			Expect(cfg.Security.AdminEmails).To(Equal([]string{"a@co.com", "b@co.com"}))
			Expect(cfg.Security.LoginRatePerMinute).To(Equal(7))
			Expect(cfg.Server.ReadTimeout).To(Equal(20 * time.Second))
			Expect(cfg.App.Env).To(Equal(internal.EnvProduction))
		})
	})
})
