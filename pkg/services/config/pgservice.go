package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/request-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry reads named Postgres connection profiles from a
// pg_service.conf style INI file.
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (domain.ConnectionProfile, error)
}

type serviceRegistry struct {
	cfg *ini.File
}

// keywords accepted by libpq in a service file that also make sense in a DSN.
var serviceKeywords = []string{
	"host", "port", "dbname", "user", "password", "sslmode", "connect_timeout", "application_name",
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &serviceRegistry{cfg: cfg}, nil
}

func (r *serviceRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *serviceRegistry) GetProfile(_ context.Context, name string) (domain.ConnectionProfile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return domain.ConnectionProfile{}, fmt.Errorf("profile %s not found", name)
	}

	var parts []string
	for _, kw := range serviceKeywords {
		if !section.HasKey(kw) {
			continue
		}
		parts = append(parts, kw+"="+quoteDSNValue(section.Key(kw).String()))
	}

	return domain.ConnectionProfile{
		Name:   name,
		Driver: domain.DriverPostgres,
		DSN:    strings.Join(parts, " "),
	}, nil
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// ResolveDSN returns the DSN for the configured database: an explicit DSN
// wins over a service-file profile.
func ResolveDSN(ctx context.Context, db DatabaseConfig) (string, error) {
	if db.DSN != "" || db.ServiceFile == "" {
		return db.DSN, nil
	}
	registry, err := NewRegistry(db.ServiceFile)
	if err != nil {
		return "", fmt.Errorf("failed to load service file: %w", err)
	}
	profile, err := registry.GetProfile(ctx, db.Service)
	if err != nil {
		return "", err
	}
	return profile.DSN, nil
}
