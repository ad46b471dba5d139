package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DeliveryConfig holds the wording used when documents leave the system.
// Templates accept {number}, {total}, {currency} and {org} placeholders.
type DeliveryConfig struct {
	Email    EmailDelivery    `mapstructure:"email"`
	Whatsapp WhatsappDelivery `mapstructure:"whatsapp"`
}

type EmailDelivery struct {
	Subject string `mapstructure:"subject"`
	Body    string `mapstructure:"body"`
}

type WhatsappDelivery struct {
	Message string `mapstructure:"message"`
}

func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		Email: EmailDelivery{
			Subject: "Facture {number}",
			Body:    "Veuillez trouver votre facture en pièce jointe.",
		},
		Whatsapp: WhatsappDelivery{
			Message: "Bonjour, voici votre facture {number} d'un montant de {total} {currency}.",
		},
	}
}

// Expand substitutes placeholders in a delivery template.
func Expand(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

type DeliveryConfigHolder struct {
	current atomic.Value // holds DeliveryConfig
}

// StaticDeliveryConfig returns a holder that never reloads.
func StaticDeliveryConfig(cfg DeliveryConfig) *DeliveryConfigHolder {
	holder := &DeliveryConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

const (
	keyEmailSubject    = "delivery.email.subject"
	keyEmailBody       = "delivery.email.body"
	keyWhatsappMessage = "delivery.whatsapp.message"
)

// NewDeliveryConfigHolder loads delivery.yml from /etc/uemoa-invoicer or the
// working directory. INVOICER_DELIVERY_EMAIL_SUBJECT and friends override the
// file, and the file is watched when present.
func NewDeliveryConfigHolder(log *zap.Logger) (*DeliveryConfigHolder, error) {
	return newDeliveryConfigHolder(log, "/etc/uemoa-invoicer", ".")
}

func newDeliveryConfigHolder(log *zap.Logger, paths ...string) (*DeliveryConfigHolder, error) {
	log = log.Named("config.delivery")
	v := viper.New()

	v.SetConfigName("delivery")
	v.SetConfigType("yml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	defaults := DefaultDeliveryConfig()
	v.SetDefault(keyEmailSubject, defaults.Email.Subject)
	v.SetDefault(keyEmailBody, defaults.Email.Body)
	v.SetDefault(keyWhatsappMessage, defaults.Whatsapp.Message)
	for _, key := range []string{keyEmailSubject, keyEmailBody, keyWhatsappMessage} {
		if err := v.BindEnv(key, deliveryEnvName(key)); err != nil {
			return nil, err
		}
	}

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileLoaded = false
	}

	cfg := readDeliveryConfig(v)
	if err := validateDeliveryConfig(cfg); err != nil {
		return nil, err
	}

	holder := StaticDeliveryConfig(cfg)
	if !fileLoaded {
		log.Info("no delivery.yml found, using defaults")
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated := readDeliveryConfig(v)
		if err := validateDeliveryConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

// deliveryEnvName maps delivery.email.subject to INVOICER_DELIVERY_EMAIL_SUBJECT.
func deliveryEnvName(key string) string {
	return "INVOICER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// readDeliveryConfig resolves each leaf on its own so env overrides apply;
// UnmarshalKey on the subtree skips them.
func readDeliveryConfig(v *viper.Viper) DeliveryConfig {
	return DeliveryConfig{
		Email: EmailDelivery{
			Subject: v.GetString(keyEmailSubject),
			Body:    v.GetString(keyEmailBody),
		},
		Whatsapp: WhatsappDelivery{
			Message: v.GetString(keyWhatsappMessage),
		},
	}
}

func (h *DeliveryConfigHolder) Get() DeliveryConfig {
	return h.current.Load().(DeliveryConfig)
}

func validateDeliveryConfig(cfg DeliveryConfig) error {
	if strings.TrimSpace(cfg.Email.Subject) == "" {
		return errors.New("delivery.email.subject cannot be empty")
	}
	if strings.TrimSpace(cfg.Email.Body) == "" {
		return errors.New("delivery.email.body cannot be empty")
	}
	return nil
}
