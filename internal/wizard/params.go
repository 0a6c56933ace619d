package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tessro/kodictl/internal/config"
)

// Params are the connection settings collected by the params form.
type Params struct {
	Host        string
	Port        string
	Transport   string
	User        string
	Password    string
	APIKey      string
	ProfileName string
}

// ParamsFrom extracts the editable settings from cfg.
func ParamsFrom(cfg *config.Config) Params {
	return Params{
		Host:        cfg.Kodi.Host,
		Port:        strconv.Itoa(cfg.Kodi.Port),
		Transport:   cfg.Kodi.Transport,
		User:        cfg.Kodi.User,
		Password:    cfg.Kodi.Password,
		APIKey:      cfg.Echonest.APIKey,
		ProfileName: cfg.Echonest.ProfileName,
	}
}

// Apply writes p into cfg.
func (p Params) Apply(cfg *config.Config) error {
	if err := validateHost(p.Host); err != nil {
		return err
	}
	port, err := parsePort(p.Port)
	if err != nil {
		return err
	}
	cfg.Kodi.Host = strings.TrimSpace(p.Host)
	cfg.Kodi.Port = port
	cfg.Kodi.Transport = p.Transport
	cfg.Kodi.User = p.User
	cfg.Kodi.Password = p.Password
	cfg.Echonest.APIKey = strings.TrimSpace(p.APIKey)
	if p.ProfileName != "" {
		cfg.Echonest.ProfileName = p.ProfileName
	}
	return nil
}

// RunParamsForm asks for the Kodi server and Echonest settings and applies
// the answers to cfg.
func RunParamsForm(cfg *config.Config) error {
	if !IsTerminal() {
		return errors.New("params needs an interactive terminal; use 'kodictl config set' instead")
	}

	p := ParamsFrom(cfg)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Kodi host").
				Description("Name or IP address of the Kodi server").
				Value(&p.Host).
				Validate(validateHost),
			huh.NewInput().
				Title("Port").
				Description("9090 for tcp, 8080 for http and ws").
				Value(&p.Port).
				Validate(func(s string) error {
					_, err := parsePort(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Transport").
				Options(
					huh.NewOption("Raw TCP", config.TransportTCP),
					huh.NewOption("HTTP", config.TransportHTTP),
					huh.NewOption("WebSocket", config.TransportWebSocket),
				).
				Value(&p.Transport),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Kodi user").
				Description("Only used by the http transport").
				Value(&p.User),
			huh.NewInput().
				Title("Kodi password").
				EchoMode(huh.EchoModePassword).
				Value(&p.Password),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Echonest API key").
				Description("Leave empty to disable taste profile commands").
				Value(&p.APIKey),
			huh.NewInput().
				Title("Taste profile name").
				Value(&p.ProfileName),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("params cancelled: %w", err)
	}
	return p.Apply(cfg)
}

func validateHost(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("host is required")
	}
	return nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return port, nil
}
