package ai

import "fmt"

// analysisTemplate is the fixed article-analysis prompt. The same template
// serves every model; only the article text changes.
const analysisTemplate = `Analiza el siguiente artículo de prensa y completa estrictamente los siguientes campos en formato JSON:

Artículo:
"%s"
"%s"

Devuelve tu respuesta en formato JSON respetando el siguiente esquema y sin ningún comentario adicional (un JSON limpio):

{
    "etiquetas_ia": [ "etiqueta1", "etiqueta2", "..." ],
    "sentimiento": "positivo | negativo | neutro",
    "rating": "número_decimal_entre_1.0_y_5.0_nivel_de_impacto",
    "nivel_riesgo": "bajo | medio | alto",
    "indicador_violencia": "sí | no | moderado",
    "edad_recomendada": "+13 | +18 | todo público"
}`

// AnalysisPrompt builds the analysis prompt for one article.
func AnalysisPrompt(title, description string) string {
	return fmt.Sprintf(analysisTemplate, title, description)
}
