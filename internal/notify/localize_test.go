package notify

import "testing"

func TestLocalizerFormat(t *testing.T) {
	tests := []struct {
		lang string
		key  string
		args []string
		want string
	}{
		{"en", KeyExportSuccess, []string{"app-output.txt"}, "Project exported successfully to: app-output.txt"},
		{"pt-BR", KeyExportSuccess, []string{"app-output.txt"}, "Projeto exportado com sucesso para: app-output.txt"},
		{"en", KeyExportSuccessMultiple, []string{"a.txt", "a.md"}, "Project exported successfully to: a.txt and a.md"},
		{"pt-br", KeyExportSuccessMultiple, []string{"a.txt", "a.md"}, "Projeto exportado com sucesso para: a.txt e a.md"},
		{"pt-BR", KeyExportError, []string{"boom"}, "Erro ao exportar projeto: boom"},
		{"en", KeyNoWorkspace, nil, "No workspace folder is open"},
		{"pt-BR", KeyCleanupError, nil, "Aviso: Não foi possível limpar arquivo de saída anterior"},
		{"fr", KeyExportStarting, nil, "Starting project export..."},
		{"en", "unknown.key", nil, "unknown.key"},
		{"en", KeyExportSuccess, nil, "Project exported successfully to: {0}"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+" "+tt.key, func(t *testing.T) {
			got := NewLocalizer(tt.lang).Format(tt.key, tt.args...)
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalizerLanguage(t *testing.T) {
	if got := NewLocalizer("PT-BR").Language(); got != "pt-BR" {
		t.Errorf("Language() = %q, want pt-BR", got)
	}
	if got := NewLocalizer("de").Language(); got != "en" {
		t.Errorf("Language() = %q, want en", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs["en"] {
		if _, ok := catalogs["pt-BR"][key]; !ok {
			t.Errorf("pt-BR is missing %q", key)
		}
	}
}

func TestLevelLabel(t *testing.T) {
	l := NewLocalizer("pt-BR")
	if got := l.LevelLabel(LevelMinimal); got != "Discreto" {
		t.Errorf("LevelLabel(minimal) = %q", got)
	}
	if got := NewLocalizer("en").LevelLabel(LevelAll); got != "All Messages" {
		t.Errorf("LevelLabel(all) = %q", got)
	}
}
