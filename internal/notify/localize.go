package notify

import (
	"strconv"
	"strings"
)

// Message keys
const (
	KeyExportSuccess         = "export.success"
	KeyExportSuccessMultiple = "export.success.multiple"
	KeyExportError           = "export.error"
	KeyNoWorkspace           = "export.noWorkspace"
	KeyExportStarting        = "export.starting"
	KeyAutoEnabled           = "export.autoEnabled"
	KeyAutoDisabled          = "export.autoDisabled"
	KeyCleanedPrevious       = "export.cleanedPrevious"
	KeyCleanupError          = "export.cleanupError"
	KeyLevelSilent           = "notification.level.silent"
	KeyLevelMinimal          = "notification.level.minimal"
	KeyLevelAll              = "notification.level.all"
)

// DefaultLanguage is used for unknown languages and missing translations.
const DefaultLanguage = "en"

var catalogs = map[string]map[string]string{
	"en": {
		KeyExportSuccess:         "Project exported successfully to: {0}",
		KeyExportSuccessMultiple: "Project exported successfully to: {0} and {1}",
		KeyExportError:           "Error exporting project: {0}",
		KeyNoWorkspace:           "No workspace folder is open",
		KeyExportStarting:        "Starting project export...",
		KeyAutoEnabled:           "Auto-export enabled",
		KeyAutoDisabled:          "Auto-export disabled",
		KeyCleanedPrevious:       "Cleaned previous output file: {0}",
		KeyCleanupError:          "Warning: Could not clean previous output file",
		KeyLevelSilent:           "Silent",
		KeyLevelMinimal:          "Minimal",
		KeyLevelAll:              "All Messages",
	},
	"pt-BR": {
		KeyExportSuccess:         "Projeto exportado com sucesso para: {0}",
		KeyExportSuccessMultiple: "Projeto exportado com sucesso para: {0} e {1}",
		KeyExportError:           "Erro ao exportar projeto: {0}",
		KeyNoWorkspace:           "Nenhuma pasta de workspace está aberta",
		KeyExportStarting:        "Iniciando exportação do projeto...",
		KeyAutoEnabled:           "Exportação automática habilitada",
		KeyAutoDisabled:          "Exportação automática desabilitada",
		KeyCleanedPrevious:       "Arquivo de saída anterior removido: {0}",
		KeyCleanupError:          "Aviso: Não foi possível limpar arquivo de saída anterior",
		KeyLevelSilent:           "Silencioso",
		KeyLevelMinimal:          "Discreto",
		KeyLevelAll:              "Todas as Mensagens",
	},
}

// Localizer resolves message keys for one language.
type Localizer struct {
	lang string
}

// NewLocalizer returns a localizer for lang (matched case-insensitively).
// Unknown languages fall back to English.
func NewLocalizer(lang string) *Localizer {
	for known := range catalogs {
		if strings.EqualFold(known, lang) {
			return &Localizer{lang: known}
		}
	}
	return &Localizer{lang: DefaultLanguage}
}

// Language returns the resolved language code.
func (l *Localizer) Language() string {
	return l.lang
}

// String returns the message for key, falling back to English and then to the
// key itself.
func (l *Localizer) String(key string) string {
	if msg, ok := catalogs[l.lang][key]; ok {
		return msg
	}
	if msg, ok := catalogs[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// Format returns the message for key with {0}, {1}, ... replaced by args.
// Each placeholder is replaced once.
func (l *Localizer) Format(key string, args ...string) string {
	text := l.String(key)
	for i, arg := range args {
		text = strings.Replace(text, "{"+strconv.Itoa(i)+"}", arg, 1)
	}
	return text
}

// LevelLabel returns the display name of a notification level.
func (l *Localizer) LevelLabel(level Level) string {
	switch level {
	case LevelSilent:
		return l.String(KeyLevelSilent)
	case LevelAll:
		return l.String(KeyLevelAll)
	default:
		return l.String(KeyLevelMinimal)
	}
}
