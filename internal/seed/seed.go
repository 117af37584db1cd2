// Package seed loads sample blog content so a fresh database has something
// to show. Every article goes through the regular article writer.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"directorio/internal/models"
	"directorio/internal/store"
)

// ArticlesPerCategory is how many sample articles each category gets.
const ArticlesPerCategory = 5

// Categories are the categories that receive sample articles: every
// directory category except Bienestar.
var Categories = sampleCategories()

func sampleCategories() []string {
	out := make([]string, 0, len(models.CategoryNames))
	for _, name := range models.CategoryNames {
		if name != "Bienestar" {
			out = append(out, name)
		}
	}
	return out
}

var imagePool = []string{
	"https://images.unsplash.com/photo-1550206574-42cfa61e2a9d?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1723646743440-0996da5ced6e?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758176175-45914394491c?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758124096-1fd661873b95?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758176559-76c75ead317a?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758063541-d2f50b4aafb2?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758002737-1919f3ba2774?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758261049-55d060e1159a?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758177266-bc599de87707?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758124277-f0086d5ab050?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758063890-1167f394febb?w=1600&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1601758124510-52d02ddb7cbd?w=1600&auto=format&fit=crop",
}

// ArticleCreator is satisfied by *store.ArticleStore.
type ArticleCreator interface {
	Create(ctx context.Context, in store.ArticleInput) (*models.Article, error)
}

// Result counts what Run did.
type Result struct {
	Created int
	Skipped int
}

// Run creates ArticlesPerCategory sample articles for every category.
// Articles whose slug already exists are skipped, so Run can be repeated.
func Run(ctx context.Context, articles ArticleCreator, rng *rand.Rand) (Result, error) {
	var res Result
	for _, category := range Categories {
		for i := 0; i < ArticlesPerCategory; i++ {
			in := SampleArticle(category, i, pickImages(rng, 4))

			a, err := articles.Create(ctx, in)
			if errors.Is(err, store.ErrDuplicateSlug) {
				res.Skipped++
				continue
			}
			if err != nil {
				return res, fmt.Errorf("seed %q: %w", in.Title, err)
			}
			res.Created++
			slog.Info("sample article created", "title", a.Title, "slug", a.Slug)
		}
	}
	return res, nil
}

// pickImages returns n distinct URLs from the pool.
func pickImages(rng *rand.Rand, n int) []string {
	urls := append([]string(nil), imagePool...)
	rng.Shuffle(len(urls), func(i, j int) { urls[i], urls[j] = urls[j], urls[i] })
	return urls[:n]
}

// SampleArticle builds the index-th sample article for category: five TOC
// entries, four sections, three FAQs and one image per URL.
func SampleArticle(category string, index int, images []string) store.ArticleInput {
	in := store.ArticleInput{
		Title:           fmt.Sprintf("%d. Consejos para %s", index+1, category),
		MetaTitle:       fmt.Sprintf("Mejores %s para mascotas | Directorio.pet", category),
		MetaDescription: fmt.Sprintf("Descubre los mejores consejos para elegir %s para tu mascota. Guía completa en Directorio.pet", category),
		Introduction: fmt.Sprintf("En este artículo, exploraremos los aspectos más importantes a considerar al elegir %s para tu mascota. "+
			"Ya sea que tengas un perro, gato u otra mascota, estos consejos te ayudarán a tomar la mejor decisión.", category),
		Conclusion: fmt.Sprintf("Elegir los %s adecuados es una decisión importante que afecta directamente la calidad de vida de tu mascota. "+
			"Tómate el tiempo necesario para investigar y encontrar la mejor opción.", category),
		CategoryName: category,
		TocItems: []store.TocInput{
			{Title: "Importancia de elegir bien"},
			{Title: "Factores a considerar"},
			{Title: "Beneficios para tu mascota"},
			{Title: "Cómo elegir al mejor profesional"},
			{Title: "Preguntas frecuentes"},
		},
		Sections: []store.SectionInput{
			{
				Title: "Importancia de elegir bien",
				Content: fmt.Sprintf("Elegir los %s adecuados es **fundamental** para el bienestar de tu mascota. "+
					"Una buena elección puede mejorar significativamente la calidad de vida de tu compañero peludo.", category),
			},
			{
				Title: "Factores a considerar",
				Content: fmt.Sprintf("Al elegir %s, ten en cuenta:\n\n- la experiencia\n- las referencias\n- los métodos utilizados\n- la compatibilidad con tu mascota", category),
			},
			{
				Title: "Beneficios para tu mascota",
				Content: fmt.Sprintf("Los %s adecuados pueden proporcionar numerosos beneficios a tu mascota, "+
					"incluyendo mejor salud, mayor felicidad y una relación más fuerte contigo.", category),
			},
			{
				Title: "Cómo elegir al mejor profesional",
				Content: fmt.Sprintf("Para elegir el mejor servicio de %s, investiga sus credenciales, lee reseñas de otros clientes "+
					"y observa cómo interactúan con tu mascota.", category),
			},
		},
		Faqs: []store.FaqInput{
			{
				Question: fmt.Sprintf("¿Con qué frecuencia debo utilizar los servicios de %s?", category),
				Answer:   "La frecuencia depende de las necesidades de tu mascota y del tipo de servicio. Consulta con el profesional para establecer un plan adecuado.",
			},
			{
				Question: fmt.Sprintf("¿Cómo sé si mi mascota está cómoda con el %s elegido?", category),
				Answer:   "Observa su comportamiento. Si se muestra relajada durante y después de las sesiones, es una buena señal.",
			},
			{
				Question: "¿Qué debo hacer si no estoy satisfecho con el servicio?",
				Answer:   "Comunica tus preocupaciones al profesional. Si no se resuelven, busca otras alternativas.",
			},
		},
	}

	for i, url := range images {
		in.Images = append(in.Images, store.ImageInput{
			URL: url,
			Alt: fmt.Sprintf("Imagen ilustrativa para %s - %d", category, i+1),
		})
	}
	return in
}
