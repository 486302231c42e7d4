package services

import (
	"context"
	"fmt"

	"github.com/servicios-app/backend/internal/infrastructure/observability"
)

type sampleProfessional struct {
	name        string
	category    string
	distance    string
	available   bool
	specialties []string
	price       string
	avatar      string
	phone       string
	description string
}

type sampleReview struct {
	professional int // index into sampleProfessionals
	clientName   string
	avatar       string
	rating       int
	comment      string
}

var sampleProfessionals = []sampleProfessional{
	{
		name: "Juan Pérez", category: "electricista", distance: "0.5 km", available: true,
		specialties: []string{"Instalaciones", "Reparaciones"}, price: "$5,000", avatar: "JP",
		phone:       "+54 9 342 123-4567",
		description: "Electricista con más de 10 años de experiencia en instalaciones residenciales y comerciales.",
	},
	{
		name: "María González", category: "electricista", distance: "1.2 km", available: true,
		specialties: []string{"Instalaciones", "Mantenimiento"}, price: "$4,500", avatar: "MG",
		phone:       "+54 9 342 234-5678",
		description: "Especialista en sistemas eléctricos modernos y domótica.",
	},
	{
		name: "Carlos Rodríguez", category: "electricista", distance: "2.1 km", available: false,
		specialties: []string{"Reparaciones", "Emergencias"}, price: "$6,000", avatar: "CR",
		phone:       "+54 9 342 345-6789",
		description: "Servicio de emergencias 24/7 para reparaciones eléctricas urgentes.",
	},
	{
		name: "Ana Martínez", category: "plomero", distance: "0.8 km", available: true,
		specialties: []string{"Reparaciones", "Instalaciones"}, price: "$4,000", avatar: "AM",
		phone:       "+54 9 342 456-7890",
		description: "Plomera especializada en reparaciones de cañerías y grifería.",
	},
	{
		name: "Luis Fernández", category: "carpintero", distance: "1.5 km", available: true,
		specialties: []string{"Muebles", "Reparaciones"}, price: "$3,500", avatar: "LF",
		phone:       "+54 9 342 567-8901",
		description: "Carpintero artesanal especializado en muebles a medida y restauración.",
	},
}

var sampleReviews = []sampleReview{
	{professional: 0, clientName: "Ana Cliente", avatar: "AC", rating: 5, comment: "Excelente trabajo, muy profesional y puntual."},
	{professional: 0, clientName: "José Morales", avatar: "JM", rating: 4, comment: "Buen servicio, resolvió el problema rápidamente."},
	{professional: 1, clientName: "Laura Pérez", avatar: "LP", rating: 5, comment: "Muy recomendable, trabajo de calidad."},
	{professional: 3, clientName: "Roberto Silva", avatar: "RS", rating: 5, comment: "Solucionó la fuga de agua perfectamente."},
}

// Seeder loads the sample directory into an empty database
type Seeder struct {
	professionals *ProfessionalService
	reviews       *ReviewService
}

// NewSeeder creates a new seeder
func NewSeeder(professionals *ProfessionalService, reviews *ReviewService) *Seeder {
	return &Seeder{professionals: professionals, reviews: reviews}
}

// Seed inserts the sample professionals and reviews unless a professional already
// exists. It reports whether anything was inserted.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	existing, err := s.professionals.List(ctx, "")
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	ids := make([]int64, len(sampleProfessionals))
	for i, sp := range sampleProfessionals {
		sp := sp
		professional, err := s.professionals.Create(ctx, ProfessionalInput{
			Name:        &sp.name,
			Category:    &sp.category,
			Distance:    &sp.distance,
			Available:   &sp.available,
			Specialties: &sp.specialties,
			Price:       &sp.price,
			Avatar:      &sp.avatar,
			Phone:       &sp.phone,
			Description: &sp.description,
		})
		if err != nil {
			return false, fmt.Errorf("failed to seed professional %q: %w", sp.name, err)
		}
		ids[i] = professional.ID
	}

	for _, sr := range sampleReviews {
		sr := sr
		professionalID := ids[sr.professional]
		if _, err := s.reviews.Create(ctx, ReviewInput{
			ProfessionalID: &professionalID,
			ClientName:     &sr.clientName,
			ClientAvatar:   &sr.avatar,
			Rating:         &sr.rating,
			Comment:        &sr.comment,
		}); err != nil {
			return false, fmt.Errorf("failed to seed review by %q: %w", sr.clientName, err)
		}
	}

	observability.LoggerFromContext(ctx).Info().
		Int("professionals", len(sampleProfessionals)).
		Int("reviews", len(sampleReviews)).
		Msg("seeded sample data")
	return true, nil
}
