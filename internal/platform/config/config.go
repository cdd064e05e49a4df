package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	rewardports "github.com/0xandee/SpeedRunLisk/contexts/reward-core/reward-ledger/ports"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	CampaignOwner string
	PolicyFile    string
	AuditLogPath  string

	EscrowRPCURL       string
	EscrowContractAddr string
	EscrowPrivateKey   string
	SettlementAttempts int

	WeeklySubmissionTarget int

	EnableSettlementConsumer bool
	EnableProgressSync       bool
	EnableOutboxRelay        bool
}

func Load() (Config, error) {
	// Local development reads .env; missing file is not an error.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "speedrun-lisk"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		CampaignOwner: os.Getenv("CAMPAIGN_OWNER_ADDRESS"),
		PolicyFile:    os.Getenv("CAMPAIGN_POLICY_FILE"),
		AuditLogPath:  os.Getenv("REWARD_AUDIT_LOG_PATH"),

		EscrowRPCURL:       os.Getenv("ESCROW_RPC_URL"),
		EscrowContractAddr: os.Getenv("ESCROW_CONTRACT_ADDRESS"),
		EscrowPrivateKey:   os.Getenv("ESCROW_PRIVATE_KEY"),
		SettlementAttempts: envInt("SETTLEMENT_MAX_ATTEMPTS", 3),

		WeeklySubmissionTarget: envInt("WEEKLY_SUBMISSION_TARGET", 100),

		EnableSettlementConsumer: envBool("ENABLE_SETTLEMENT_CONSUMER", true),
		EnableProgressSync:       envBool("ENABLE_PROGRESS_SYNC", true),
		EnableOutboxRelay:        envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

// LoadPolicy resolves the campaign reward policy: the built-in six-week
// program unless a YAML override file is configured.
func LoadPolicy(path string) (rewardports.Policy, error) {
	if strings.TrimSpace(path) == "" {
		return rewardports.DefaultPolicy(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return rewardports.Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	var file policyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return rewardports.Policy{}, fmt.Errorf("parse policy file: %w", err)
	}
	policy := rewardports.Policy{
		MaxBudget:  file.MaxBudget,
		FirstWeek:  file.FirstWeek,
		LastWeek:   file.LastWeek,
		Categories: make(map[rewardports.RewardCategory]rewardports.CategoryRule, len(file.Categories)),
	}
	for name, rule := range file.Categories {
		policy.Categories[rewardports.RewardCategory(name)] = rewardports.CategoryRule{
			Amount:    rule.Amount,
			WeeklyCap: rule.WeeklyCap,
		}
	}
	if policy.MaxBudget <= 0 || policy.FirstWeek <= 0 || policy.LastWeek < policy.FirstWeek || len(policy.Categories) == 0 {
		return rewardports.Policy{}, fmt.Errorf("policy file %s is incomplete", path)
	}
	return policy, nil
}

type policyFile struct {
	MaxBudget  int64                     `yaml:"max_budget"`
	FirstWeek  int                       `yaml:"first_week"`
	LastWeek   int                       `yaml:"last_week"`
	Categories map[string]policyFileRule `yaml:"categories"`
}

type policyFileRule struct {
	Amount    int64 `yaml:"amount"`
	WeeklyCap int   `yaml:"weekly_cap"`
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
