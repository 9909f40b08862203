package analytics

// Report prompt templates. Each report shares the AI clients with the article
// pipeline but speaks its own template and expects its own output schema.

const summaryTemplate = `Con base en las siguientes métricas extraídas de un conjunto de noticias analizadas por IA:
- Artículos por fuente:
%s
- Distribución de sentimientos:
%s
- Promedio de rating por fuente:
%s
- Niveles de riesgo identificados:
%s

Genera un resumen ejecutivo de estilo profesional que describa el comportamiento editorial observado.
Devuelve tu respuesta en formato JSON respetando el siguiente esquema y sin ningún comentario adicional (un JSON limpio):

{
    "titulo": "Título del resumen ejecutivo",
    "resumen": "Texto del resumen ejecutivo",
    "elementos_clave": [ "elemento1", "elemento2", "..." ],
    "posibles_implicaciones": [ "implicacion1", "implicacion2", "..." ],
    "preguntas_pendientes": [ "pregunta1", "pregunta2", "..." ]
}`

const trendsTemplate = `Analiza el siguiente conjunto de datos agregados de noticias:
- Sentimientos detectados por IA (frecuencia):
%s

Con base en estos datos, describe cuál es la tendencia emocional predominante en las noticias.
Incluye interpretación social o mediática que podría estar reflejando.`

const riesgosTemplate = `Con base en los siguientes datos agregados de un sistema de análisis de noticias:
- Sentimientos negativos: %d
- Nivel de riesgo alto: %d
- Indicadores de violencia detectados:
%s

Evalúa qué tipo de impacto social podría tener este tipo de contenido en los lectores.
Genera una hipótesis sobre consecuencias a corto o mediano plazo si esta tendencia se mantiene.
Devuelve tu respuesta en formato JSON respetando el siguiente esquema y sin ningún comentario adicional (un JSON limpio):

{
    "riesgo_general": "bajo | medio | alto",
    "factores_detonantes": [ "factor1", "factor2", "..." ],
    "recomendaciones": [ "recomendacion1", "recomendacion2", "..." ]
}`

const comparisonTemplate = `Comparación entre los siguientes medios según su análisis por IA:

%s

Redacta un reporte comparativo sobre estilo editorial, tono y grado de riesgo en la información de cada fuente.`

const audienceTemplate = `Estas noticias han sido etiquetadas con niveles de edad recomendada y temas potencialmente sensibles:

- Edad recomendada más frecuente: %s
- Niveles de riesgo: %s
- Presencia de violencia: %s

Recomienda para qué tipo de audiencia deberían estar destinadas estas noticias.
Incluye un comentario sobre cómo afecta esto a lectores jóvenes o vulnerables.`
