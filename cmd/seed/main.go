package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"yellowair/internal/bookings"
	"yellowair/internal/routes"
	"yellowair/internal/shared/config"
	"yellowair/internal/shared/database"
	"yellowair/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Yellow Airlines Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"bookings",
		"flight_instances",
		"route_templates",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Seed users first (no dependencies)
	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// Seed the route network
	templateIDs, err := s.SeedRouteTemplates()
	if err != nil {
		return fmt.Errorf("failed to seed route templates: %w", err)
	}

	// Seed demo bookings, including settled-pending ones
	if err := s.SeedBookings(userIDs, templateIDs); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	// Clear Redis so cached status boards do not survive a reseed
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 1 admin and 2 loyalty members
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key          string
		firstName    string
		lastName     string
		email        string
		memberNumber string
		role         users.Role
	}{
		{"admin", "Admin", "User", "admin@yellowair.com", "", users.RoleAdmin},
		{"member1", "Avery", "Chen", "avery.chen@example.com", "YA-100001", users.RoleUser},
		{"member2", "Noor", "Haddad", "noor.haddad@example.com", "YA-100002", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:           uuid.New(),
			FirstName:    userData.firstName,
			LastName:     userData.lastName,
			Email:        userData.email,
			Password:     string(hashedPassword),
			MemberNumber: userData.memberNumber,
			Role:         userData.role,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedRouteTemplates creates the Yellow Airlines network
func (s *Seeder) SeedRouteTemplates() (map[string]uuid.UUID, error) {
	fmt.Println("  ✈️ Seeding route templates...")

	templateIDs := make(map[string]uuid.UUID)

	templatesData := []routes.RouteTemplate{
		{
			FlightNumber: "YA101", Airline: "Yellow Airlines", AirlineCode: "YA",
			Origin: "PVG", OriginCity: "Shanghai", Destination: "LHR", DestinationCity: "London",
			DepartureTime: "09:00", ArrivalTime: "17:00", Duration: "8h 0m",
			Aircraft: "Boeing 787-9", OperatingDays: "1234567",
			EconomySeats: 180, PremiumEconomySeats: 28, BusinessSeats: 30, FirstClassSeats: 8,
			EconomyPrice: 4200, PremiumEconomyPrice: 7800, BusinessPrice: 16800, FirstClassPrice: 32000,
			HasEconomy: true, HasPremiumEconomy: true, HasBusiness: true, HasFirstClass: true,
		},
		{
			FlightNumber: "YA102", Airline: "Yellow Airlines", AirlineCode: "YA",
			Origin: "LHR", OriginCity: "London", Destination: "PVG", DestinationCity: "Shanghai",
			DepartureTime: "21:30", ArrivalTime: "16:45+1", Duration: "11h 15m",
			Aircraft: "Boeing 787-9", OperatingDays: "1234567",
			EconomySeats: 180, PremiumEconomySeats: 28, BusinessSeats: 30, FirstClassSeats: 8,
			EconomyPrice: 4300, PremiumEconomyPrice: 7900, BusinessPrice: 17200, FirstClassPrice: 32500,
			HasEconomy: true, HasPremiumEconomy: true, HasBusiness: true, HasFirstClass: true,
		},
		{
			FlightNumber: "YA205", Airline: "Yellow Airlines", AirlineCode: "YA",
			Origin: "PVG", OriginCity: "Shanghai", Destination: "NRT", DestinationCity: "Tokyo",
			DepartureTime: "08:15", ArrivalTime: "12:05", Duration: "2h 50m",
			Aircraft: "Airbus A330-300", OperatingDays: "1234567",
			EconomySeats: 240, BusinessSeats: 30,
			EconomyPrice: 1450, BusinessPrice: 5200,
			HasEconomy: true, HasBusiness: true,
		},
		{
			FlightNumber: "YA206", Airline: "Yellow Airlines", AirlineCode: "YA",
			Origin: "NRT", OriginCity: "Tokyo", Destination: "PVG", DestinationCity: "Shanghai",
			DepartureTime: "14:20", ArrivalTime: "16:30", Duration: "3h 10m",
			Aircraft: "Airbus A330-300", OperatingDays: "1234567",
			EconomySeats: 240, BusinessSeats: 30,
			EconomyPrice: 1480, BusinessPrice: 5300,
			HasEconomy: true, HasBusiness: true,
		},
		{
			FlightNumber: "YA309", Airline: "Yellow Airlines", AirlineCode: "YA",
			Origin: "PVG", OriginCity: "Shanghai", Destination: "SIN", DestinationCity: "Singapore",
			DepartureTime: "23:45", ArrivalTime: "05:10+1", Duration: "5h 25m",
			Aircraft: "Airbus A350-900", OperatingDays: "135",
			EconomySeats: 253, PremiumEconomySeats: 24, BusinessSeats: 42,
			EconomyPrice: 2100, PremiumEconomyPrice: 3600, BusinessPrice: 8400,
			HasEconomy: true, HasPremiumEconomy: true, HasBusiness: true,
		},
		{
			FlightNumber: "YA310", Airline: "Yellow Airlines", AirlineCode: "YA",
			Origin: "SIN", OriginCity: "Singapore", Destination: "PVG", DestinationCity: "Shanghai",
			DepartureTime: "22:00", ArrivalTime: "03:05", Duration: "5h 5m",
			Aircraft: "Airbus A350-900", OperatingDays: "246",
			EconomySeats: 253, PremiumEconomySeats: 24, BusinessSeats: 42,
			EconomyPrice: 2150, PremiumEconomyPrice: 3650, BusinessPrice: 8500,
			HasEconomy: true, HasPremiumEconomy: true, HasBusiness: true,
		},
		{
			FlightNumber: "YA415", Airline: "Yellow Airlines", AirlineCode: "YA",
			Origin: "PEK", OriginCity: "Beijing", Destination: "JFK", DestinationCity: "New York",
			DepartureTime: "13:00", ArrivalTime: "14:30", Duration: "13h 30m",
			Aircraft: "Boeing 777-300ER", OperatingDays: "2467",
			EconomySeats: 296, PremiumEconomySeats: 34, BusinessSeats: 40, FirstClassSeats: 8,
			EconomyPrice: 5600, PremiumEconomyPrice: 9400, BusinessPrice: 21000, FirstClassPrice: 42000,
			HasEconomy: true, HasPremiumEconomy: true, HasBusiness: true, HasFirstClass: true,
		},
		{
			FlightNumber: "YA520", Airline: "Yellow Airlines", AirlineCode: "YA",
			Origin: "PVG", OriginCity: "Shanghai", Destination: "CAN", DestinationCity: "Guangzhou",
			DepartureTime: "07:30", ArrivalTime: "10:00", Duration: "2h 30m",
			Aircraft: "Airbus A321neo", OperatingDays: "12345",
			EconomySeats: 178, BusinessSeats: 16,
			EconomyPrice: 780, BusinessPrice: 2400,
			HasEconomy: true, HasBusiness: true,
		},
	}

	for i := range templatesData {
		template := templatesData[i]
		template.ID = uuid.New()
		template.CreatedAt = time.Now()
		template.UpdatedAt = time.Now()

		if err := s.db.PostgreSQL.Create(&template).Error; err != nil {
			return nil, fmt.Errorf("failed to create route %s: %w", template.FlightNumber, err)
		}

		templateIDs[template.FlightNumber] = template.ID
		fmt.Printf("    ✅ Created route: %s %s-%s\n", template.FlightNumber, template.Origin, template.Destination)
	}

	return templateIDs, nil
}

// SeedBookings creates demo bookings against recent travel dates so the
// settlement engine has work to do on first run
func (s *Seeder) SeedBookings(userIDs, templateIDs map[string]uuid.UUID) error {
	fmt.Println("  🎫 Seeding bookings...")

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	nextWeek := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)

	bookingsData := []bookings.Booking{
		{
			BookingRef: "YAWB3K", UserID: userIDs["member1"], TemplateID: templateIDs["YA101"],
			TravelDate: yesterday, CabinClass: routes.CabinBusiness,
			PassengerName: "Avery Chen", SeatNumber: "4A", TotalPrice: 16800,
			Status: bookings.StatusCheckedIn, CheckedIn: true,
		},
		{
			BookingRef: "YAGT7M", UserID: userIDs["member1"], TemplateID: templateIDs["YA205"],
			TravelDate: yesterday, CabinClass: routes.CabinEconomy,
			PassengerName: "Avery Chen", SeatNumber: "22C", TotalPrice: 1450,
			// Credits member2 via member number instead of the booking owner
			MemberNumber: "YA-100002",
			Status:       bookings.StatusConfirmed,
		},
		{
			BookingRef: "YAQP9X", UserID: userIDs["member2"], TemplateID: templateIDs["YA102"],
			TravelDate: nextWeek, CabinClass: routes.CabinPremiumEconomy,
			PassengerName: "Noor Haddad", SeatNumber: "12K", TotalPrice: 7900,
			Status: bookings.StatusConfirmed,
		},
		{
			BookingRef: "YAZL2D", UserID: userIDs["member2"], TemplateID: templateIDs["YA520"],
			TravelDate: yesterday, CabinClass: routes.CabinEconomy,
			PassengerName: "Noor Haddad", SeatNumber: "15F", TotalPrice: 780,
			Status: bookings.StatusCancelled,
		},
	}

	for i := range bookingsData {
		booking := bookingsData[i]
		booking.ID = uuid.New()
		booking.CreatedAt = time.Now()
		booking.UpdatedAt = time.Now()

		if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking %s: %w", booking.BookingRef, err)
		}

		fmt.Printf("    ✅ Created booking: %s (%s)\n", booking.BookingRef, booking.Status)
	}

	return nil
}
