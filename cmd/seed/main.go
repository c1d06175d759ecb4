package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/medidir/clinic-booking-platform/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	_ = godotenv.Load()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	seedCtx := context.Background()

	cityIDs, err := seedCities(seedCtx, pool)
	if err != nil {
		log.Fatalf("seed cities: %v", err)
	}
	specialtyIDs, err := seedSpecialties(seedCtx, pool)
	if err != nil {
		log.Fatalf("seed specialties: %v", err)
	}
	ownerIDs, err := seedUsers(seedCtx, pool, "PROVIDER", 20)
	if err != nil {
		log.Fatalf("seed owners: %v", err)
	}
	if _, err := seedUsers(seedCtx, pool, "PATIENT", 2000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	clinicIDs, err := seedFacilities(seedCtx, pool, ownerIDs, cityIDs, 40)
	if err != nil {
		log.Fatalf("seed facilities: %v", err)
	}
	if err := seedDoctors(seedCtx, pool, clinicIDs, specialtyIDs, 120); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}

	log.Println("seed complete")
}

var cities = [][2]string{
	{"Cairo", "القاهرة"},
	{"Alexandria", "الإسكندرية"},
	{"Giza", "الجيزة"},
	{"Mansoura", "المنصورة"},
	{"Tanta", "طنطا"},
}

var specialties = [][2]string{
	{"Dermatology", "جلدية"},
	{"Cardiology", "قلب"},
	{"General Practice", "طب عام"},
	{"Orthopedics", "عظام"},
	{"Pediatrics", "أطفال"},
	{"Neurology", "مخ وأعصاب"},
	{"Psychiatry", "نفسية"},
	{"Ophthalmology", "عيون"},
	{"ENT", "أنف وأذن"},
	{"Dentistry", "أسنان"},
}

func seedCities(ctx context.Context, pool *pgxpool.Pool) ([]int32, error) {
	ids := make([]int32, 0, len(cities))
	for _, c := range cities {
		var id int32
		err := pool.QueryRow(ctx, `
			INSERT INTO cities (name_en, name_ar) VALUES ($1, $2) RETURNING id
		`, c[0], c[1]).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Printf("cities seeded: %d", len(ids))
	return ids, nil
}

func seedSpecialties(ctx context.Context, pool *pgxpool.Pool) ([]int32, error) {
	ids := make([]int32, 0, len(specialties))
	for _, s := range specialties {
		var id int32
		err := pool.QueryRow(ctx, `
			INSERT INTO specialties (name_en, name_ar) VALUES ($1, $2) RETURNING id
		`, s[0], s[1]).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	log.Printf("specialties seeded: %d", len(ids))
	return ids, nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, role string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d %s users", count, role)

	const batchSize = 500
	ids := make([]uuid.UUID, 0, count)

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			_, err := tx.Exec(ctx, `
				INSERT INTO users (id, full_name, email, phone, role, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, now(), now())
			`, id, gofakeit.Name(), gofakeit.Email(), gofakeit.Phone(), role)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}
			ids = append(ids, id)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
	}

	return ids, nil
}

func seedFacilities(ctx context.Context, pool *pgxpool.Pool, ownerIDs []uuid.UUID, cityIDs []int32, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d facilities", count)

	services := []string{"X-Ray", "Lab Tests", "Vaccination", "Ultrasound", "Physiotherapy"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var clinicIDs []uuid.UUID
	for i := 0; i < count; i++ {
		id := uuid.New()
		facType := "CLINIC"
		if gofakeit.Number(0, 3) == 0 {
			facType = "PHARMACY"
		}

		var svcs []string
		if facType == "CLINIC" {
			n := gofakeit.Number(1, 3)
			for j := 0; j < n; j++ {
				svcs = append(svcs, services[gofakeit.Number(0, len(services)-1)])
			}
		}

		name := gofakeit.Company()
		_, err := tx.Exec(ctx, `
			INSERT INTO facilities (id, type, owner_id, name_en, name_ar, city_id, contact_phone, services, is_verified, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		`, id, facType,
			ownerIDs[gofakeit.Number(0, len(ownerIDs)-1)],
			name, name,
			cityIDs[gofakeit.Number(0, len(cityIDs)-1)],
			gofakeit.Phone(), svcs, gofakeit.Bool())
		if err != nil {
			return nil, err
		}

		if facType == "CLINIC" {
			clinicIDs = append(clinicIDs, id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Printf("facilities seeded (%d clinics)", len(clinicIDs))
	return clinicIDs, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, clinicIDs []uuid.UUID, specialtyIDs []int32, count int) error {
	log.Printf("seeding %d doctors", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		name := "Dr. " + gofakeit.Name()

		specs := []int32{specialtyIDs[gofakeit.Number(0, len(specialtyIDs)-1)]}
		if gofakeit.Bool() {
			specs = append(specs, specialtyIDs[gofakeit.Number(0, len(specialtyIDs)-1)])
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name_en, name_ar, specialty_ids, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
		`, id, name, name, specs)
		if err != nil {
			return err
		}

		clinicID := clinicIDs[gofakeit.Number(0, len(clinicIDs)-1)]
		_, err = tx.Exec(ctx, `
			INSERT INTO clinic_doctors (clinic_id, doctor_id) VALUES ($1, $2)
		`, clinicID, id)
		if err != nil {
			return err
		}

		// Weekly windows: working days Sat..Thu in the Sat=0 ordering
		for day := 0; day <= 5; day++ {
			if gofakeit.Number(0, 4) == 0 {
				continue // day off
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO doctor_schedules (id, doctor_id, day_of_week, start_time, end_time, slot_duration_minutes, created_at, updated_at)
				VALUES ($1, $2, $3, $4::time, $5::time, $6, now(), now())
			`, uuid.New(), id, day, "09:00", "17:00", []int{15, 20, 30, 60}[gofakeit.Number(0, 3)])
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}
