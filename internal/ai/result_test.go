package ai

import (
	"encoding/json"
	"testing"

	"github.com/prensalab/prensa/internal/models"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "fenced with json tag",
			input: "```json\n{\"sentimiento\": \"positivo\"}\n```",
			want:  `{"sentimiento": "positivo"}`,
		},
		{
			name:  "fenced without tag",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "prose around object",
			input: "Claro, aquí está el análisis:\n{\"a\": 1}\nEspero que sirva.",
			want:  `{"a": 1}`,
		},
		{
			name:  "prose around fenced object",
			input: "Aquí tienes:\n```json\n{\"a\": 1}\n```\nSaludos.",
			want:  `{"a": 1}`,
		},
		{
			name:  "array document",
			input: "```json\n[1, 2, 3]\n```",
			want:  `[1, 2, 3]`,
		},
		{
			name:  "nested braces",
			input: `{"outer": {"inner": 1}}`,
			want:  `{"outer": {"inner": 1}}`,
		},
		{
			name:  "no json at all",
			input: "lo siento, no puedo analizar esta noticia",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.input); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "number", raw: `4.5`, want: 4.5},
		{name: "integer", raw: `3`, want: 3},
		{name: "quoted string", raw: `"4.5"`, want: 4.5},
		{name: "quoted with spaces", raw: `" 2.0 "`, want: 2.0},
		{name: "clamped low", raw: `0.2`, want: 1.0},
		{name: "clamped high", raw: `9.8`, want: 5.0},
		{name: "garbage string", raw: `"muy bueno"`, wantErr: true},
		{name: "missing", raw: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRating(json.RawMessage(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseRating(%s): expected error, got %v", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRating(%s): unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("parseRating(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Sentiment
		wantErr bool
	}{
		{input: "positivo", want: models.SentimentPositive},
		{input: "Positiva", want: models.SentimentPositive},
		{input: "NEGATIVO", want: models.SentimentNegative},
		{input: "neutral", want: models.SentimentNeutral},
		{input: " neutro ", want: models.SentimentNeutral},
		{input: "", wantErr: true},
		{input: "contento", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseSentiment(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseSentiment(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSentiment(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseSentiment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseViolence(t *testing.T) {
	tests := []struct {
		input   string
		want    models.ViolenceIndicator
		wantErr bool
	}{
		{input: "sí", want: models.ViolenceYes},
		{input: "si", want: models.ViolenceYes},
		{input: "No", want: models.ViolenceNo},
		{input: "moderado", want: models.ViolenceModerate},
		{input: "tal vez", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseViolence(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseViolence(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseViolence(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseViolence(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeAnalysis_MissingFields(t *testing.T) {
	full := func() analysisPayload {
		return analysisPayload{
			EtiquetasIA:        []string{"política", "salud"},
			Sentimiento:        "negativo",
			Rating:             json.RawMessage(`3.5`),
			NivelRiesgo:        "medio",
			IndicadorViolencia: "no",
			EdadRecomendada:    "+14",
		}
	}

	// The complete payload normalizes cleanly.
	a, err := normalizeAnalysis(full())
	if err != nil {
		t.Fatalf("complete payload: unexpected error: %v", err)
	}
	if a.Sentiment != models.SentimentNegative || a.Risk != models.RiskMedium || a.Rating != 3.5 {
		t.Errorf("complete payload normalized wrong: %+v", a)
	}

	// Dropping any required field is a hard error.
	mutations := map[string]func(*analysisPayload){
		"etiquetas_ia":        func(p *analysisPayload) { p.EtiquetasIA = nil },
		"sentimiento":         func(p *analysisPayload) { p.Sentimiento = "" },
		"rating":              func(p *analysisPayload) { p.Rating = nil },
		"nivel_riesgo":        func(p *analysisPayload) { p.NivelRiesgo = "" },
		"indicador_violencia": func(p *analysisPayload) { p.IndicadorViolencia = "" },
		"edad_recomendada":    func(p *analysisPayload) { p.EdadRecomendada = "" },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			p := full()
			mutate(&p)
			if _, err := normalizeAnalysis(p); err == nil {
				t.Errorf("missing %s: expected error, got none", field)
			}
		})
	}
}

func TestParseModel(t *testing.T) {
	if m, err := ParseModel("GEMINI"); err != nil || m != ModelGemini {
		t.Errorf("ParseModel(GEMINI) = %q, %v", m, err)
	}
	if m, err := ParseModel("OPENAI"); err != nil || m != ModelOpenAI {
		t.Errorf("ParseModel(OPENAI) = %q, %v", m, err)
	}
	if _, err := ParseModel("CLAUDE"); err == nil {
		t.Error("ParseModel(CLAUDE): expected error, got nil")
	}
	if _, err := ParseModel(""); err == nil {
		t.Error("ParseModel(empty): expected error, got nil")
	}
}
