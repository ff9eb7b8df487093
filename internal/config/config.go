package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
)

// Config holds all configuration from environment variables.
type Config struct {
	Token string `envconfig:"TELEGRAM_API_TOKEN" required:"true" validate:"required"`

	// Yandex Disk settings
	DiskToken      string        `envconfig:"YANDEX_DISK_TOKEN" required:"true" validate:"required"`
	DiskFolder     string        `envconfig:"YANDEX_DISK_FOLDER" default:"/wisdom_card" validate:"required"`
	DiskBaseURL    string        `envconfig:"YANDEX_DISK_BASE_URL" default:"https://cloud-api.yandex.net/v1/disk" validate:"required,url"`
	ListLimit      int           `envconfig:"LIST_LIMIT" default:"1000" validate:"gte=1,lte=10000"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s" validate:"gt=0"`
	DiskRateLimit  float64       `envconfig:"DISK_RATE_LIMIT" default:"5" validate:"gte=0"` // Requests per second, 0 = unlimited

	ImageExtensions []string `envconfig:"IMAGE_EXTENSIONS" default:".jpg,.jpeg,.png,.gif,.bmp,.webp" validate:"min=1,dive,startswith=."`

	// Hints a single chat may request per minute, 0 disables throttling
	HintRatePerMinute int `envconfig:"HINT_RATE_PER_MINUTE" default:"20" validate:"gte=0"`

	// Local image shown when no card can be delivered
	FallbackImage string `envconfig:"FALLBACK_IMAGE" default:"images/sleep-cat.png"`

	// Optional admin HTTP surface, disabled when empty
	AdminAddr  string `envconfig:"ADMIN_ADDR" default:"" validate:"omitempty,hostname_port"`
	AdminToken string `envconfig:"ADMIN_TOKEN" default:""`

	// Path to config.toml file
	ConfigFile string `envconfig:"CONFIG_FILE" default:"config.toml"`

	// Messages loaded from config.toml
	Messages Messages
}

// Messages holds the user-facing texts loaded from config.toml.
type Messages struct {
	Welcome      string `toml:"welcome"`
	Sleep        string `toml:"sleep"`
	GetHint      string `toml:"get_hint"`
	NewHint      string `toml:"new_hint"`
	BackToStart  string `toml:"back_to_start"`
	Throttled    string `toml:"throttled"`
	StartCommand string `toml:"start_command"`
}

// FileConfig represents the structure of config.toml.
type FileConfig struct {
	Messages Messages `toml:"messages"`
}

// DefaultMessages provides fallback texts if config.toml is not found.
var DefaultMessages = Messages{
	Welcome: `✨ Здравствуйте!

Иногда одна вовремя услышанная фраза может изменить очень многое.

Я здесь, чтобы давать вам такие подсказки. Нажимайте «Получить подсказку» — и вашей личной мудростью на сегодня станет случайно выбранная цитата.

📚 Как это работает?
Это не гадалка! Психологическая польза основана на научных данных о работе нашего мозга. Неожиданная глубокая мысль прерывает мыслительный «автопилот» и:
• Останавливает автоматизм, заставляя сфокусироваться на моменте
• Активирует ассоциативную память, связывая ваш опыт с мудростью веков
• Работает как проективный тест: мы находим в цитате именно то, что актуально для нас сейчас

💬 Присоединяйтесь к нашему сообществу «Психосоматика Души» в ВКонтакте, где мы делимся мудростью и размышляем о жизни:
👉 https://vk.com/club220155225

Нажмите кнопку, чтобы получить подсказку! Вы можете использовать цитату как подсказку дня или сформулировать в уме волнующий вопрос перед нажатием.`,
	Sleep:        "Извините, бот пока отдыхает, ведь здоровый сон очень важен для психологического здоровья. 🌙",
	GetHint:      "Получить подсказку",
	NewHint:      "Получить новую подсказку",
	BackToStart:  "🏠 Вернуться к началу",
	Throttled:    "Немного подождите перед следующей подсказкой 🙏",
	StartCommand: "Начать",
}

// LoadEnv loads the configuration from environment variables.
func (c Config) LoadEnv() (Config, error) {
	cfg := c

	if err := envconfig.Process("", &cfg); err != nil {
		return c, err
	}

	return cfg, nil
}

// LoadFile loads messages from config.toml file.
func (c *Config) LoadFile() error {
	configPath := resolvePath(c.ConfigFile)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		c.Messages = DefaultMessages
		return nil
	}

	var fileConfig FileConfig
	if _, err := toml.DecodeFile(configPath, &fileConfig); err != nil {
		return fmt.Errorf("failed to decode %s: %w", configPath, err)
	}

	c.Messages = fileConfig.Messages.withDefaults()

	return nil
}

// resolvePath finds a relative path in the current directory first and
// falls back to the executable's directory.
func resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		execPath, err := os.Executable()
		if err == nil {
			return filepath.Join(filepath.Dir(execPath), path)
		}
	}
	return path
}

// withDefaults fills empty fields from DefaultMessages.
func (m Messages) withDefaults() Messages {
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&m.Welcome, DefaultMessages.Welcome)
	fill(&m.Sleep, DefaultMessages.Sleep)
	fill(&m.GetHint, DefaultMessages.GetHint)
	fill(&m.NewHint, DefaultMessages.NewHint)
	fill(&m.BackToStart, DefaultMessages.BackToStart)
	fill(&m.Throttled, DefaultMessages.Throttled)
	fill(&m.StartCommand, DefaultMessages.StartCommand)
	return m
}

// Validate checks field constraints that envconfig cannot express.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.AdminAddr != "" && c.AdminToken == "" {
		return fmt.Errorf("invalid configuration: ADMIN_TOKEN is required when ADMIN_ADDR is set")
	}
	return nil
}

func NewConfig() (*Config, error) {
	var cfg Config
	loadedCfg, err := cfg.LoadEnv()
	if err != nil {
		return nil, err
	}

	// Normalise extensions so matching can stay a plain suffix check
	for i, ext := range loadedCfg.ImageExtensions {
		loadedCfg.ImageExtensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}

	if err := loadedCfg.Validate(); err != nil {
		return nil, err
	}

	// The fallback image ships next to the binary
	loadedCfg.FallbackImage = resolvePath(loadedCfg.FallbackImage)

	// Load messages from config.toml
	if err := loadedCfg.LoadFile(); err != nil {
		return nil, err
	}

	return &loadedCfg, nil
}

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(
			NewConfig,
		),
	)
}
