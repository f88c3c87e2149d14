package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/triporia/booking-client/internal/core/ports"
	"github.com/triporia/booking-client/internal/core/service"
	"github.com/triporia/booking-client/internal/events"
	"github.com/triporia/booking-client/internal/infrastructure/cache"
	"github.com/triporia/booking-client/internal/infrastructure/callback"
	"github.com/triporia/booking-client/internal/infrastructure/rest"
	"github.com/triporia/booking-client/internal/infrastructure/store"
	"github.com/triporia/booking-client/internal/pkg/config"
	"github.com/triporia/booking-client/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	creds := buildStore(cfg, log)
	bus := events.NewBus()
	_ = bus.SubscribeSessionInvalidated(func(ev events.SessionInvalidated) {
		fmt.Fprintln(os.Stderr, "session expired (401 from "+ev.Path+"), please log in again")
	})

	api := rest.NewClient(rest.Options{BaseURL: cfg.APIBaseURL, Timeout: cfg.Timeout}, creds, bus, log)
	offline := openCache(cfg, log)

	app := &app{
		cfg:      cfg,
		log:      log,
		api:      api,
		auth:     service.NewAuthService(api, creds, log),
		profiles: service.NewProfileService(api, creds, log),
		hotels:   service.NewHotelService(api, offline, log),
		bookings: service.NewBookingService(api, offline, log),
		payments: service.NewPaymentService(api, log),
		reviews:  service.NewReviewService(api, log),
		sos:      service.NewSOSService(api, log),
		admin:    service.NewAdminService(api, log),
	}

	os.Exit(app.run(context.Background(), os.Args[1], os.Args[2:]))
}

type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	api      *rest.Client
	auth     ports.AuthService
	profiles ports.ProfileService
	hotels   ports.HotelService
	bookings ports.BookingService
	payments ports.PaymentService
	reviews  ports.ReviewService
	sos      ports.SOSService
	admin    ports.AdminService
}

func (a *app) run(ctx context.Context, command string, args []string) int {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		return render(a.auth.Logout(ctx))
	case "whoami":
		return a.cmdWhoami()
	case "ping":
		return a.cmdPing(ctx)
	case "profile":
		return a.cmdProfile(ctx, args)
	case "otp":
		return a.cmdOTP(ctx, args)
	case "hotels":
		return a.cmdHotels(ctx, args)
	case "bookings":
		return a.cmdBookings(ctx, args)
	case "pay":
		return a.cmdPay(ctx, args)
	case "reviews":
		return a.cmdReviews(ctx, args)
	case "sos":
		return a.cmdSOS(ctx, args)
	case "admin":
		return a.cmdAdmin(ctx, args)
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		usage()
		return 2
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	return render(a.auth.Login(ctx, ports.LoginInput{Email: *email, Password: *password}))
}

func (a *app) cmdRegister(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	phone := fs.String("phone", "", "phone number (optional)")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "tourist", "account role: tourist, vendor or admin")
	_ = fs.Parse(args)

	return render(a.auth.Register(ctx, ports.RegisterInput{
		Name:     *name,
		Email:    *email,
		Phone:    *phone,
		Password: *password,
		Role:     *role,
	}))
}

// cmdWhoami reports the local session without a round trip. Use
// "profile show" for the backend's authoritative copy.
func (a *app) cmdWhoami() int {
	if !a.auth.IsAuthenticated() {
		fmt.Println("not logged in")
		return 1
	}
	if user, ok := a.auth.CurrentUser(); ok {
		fmt.Printf("%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	} else {
		fmt.Println("logged in (no cached profile)")
	}
	if exp, ok := a.auth.TokenExpiresAt(); ok {
		if time.Now().After(exp) {
			fmt.Printf("token expired at %s; the next request may require a new login\n", exp.Format(time.RFC3339))
		} else {
			fmt.Printf("token valid until %s\n", exp.Format(time.RFC3339))
		}
	}
	return 0
}

func (a *app) cmdPing(ctx context.Context) int {
	if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "backend unreachable: %v\n", err)
		return 1
	}
	fmt.Println("ok")
	return 0
}

func (a *app) cmdProfile(ctx context.Context, args []string) int {
	sub, rest := splitSub(args)
	switch sub {
	case "show", "":
		return render(a.profiles.Get(ctx))
	case "update":
		fs := flag.NewFlagSet("profile update", flag.ExitOnError)
		name := fs.String("name", "", "new display name")
		email := fs.String("email", "", "new email")
		phone := fs.String("phone", "", "new phone number")
		_ = fs.Parse(rest)
		return render(a.profiles.Update(ctx, ports.UpdateProfileInput{Name: *name, Email: *email, Phone: *phone}))
	default:
		fmt.Fprintf(os.Stderr, "usage: triporia profile [show|update]\n")
		return 2
	}
}

func (a *app) cmdOTP(ctx context.Context, args []string) int {
	sub, rest := splitSub(args)
	switch sub {
	case "send":
		fs := flag.NewFlagSet("otp send", flag.ExitOnError)
		phone := fs.String("phone", "", "phone number to verify")
		_ = fs.Parse(rest)
		return render(a.auth.SendOTP(ctx, *phone))
	case "verify":
		fs := flag.NewFlagSet("otp verify", flag.ExitOnError)
		phone := fs.String("phone", "", "phone number")
		code := fs.String("code", "", "one-time code")
		_ = fs.Parse(rest)
		return render(a.auth.VerifyPhone(ctx, *phone, *code))
	default:
		fmt.Fprintf(os.Stderr, "usage: triporia otp [send|verify]\n")
		return 2
	}
}

func (a *app) cmdHotels(ctx context.Context, args []string) int {
	sub, rest := splitSub(args)
	switch sub {
	case "search":
		fs := flag.NewFlagSet("hotels search", flag.ExitOnError)
		destination := fs.String("destination", "", "city or region")
		checkIn := fs.String("check-in", "", "check-in date (YYYY-MM-DD)")
		checkOut := fs.String("check-out", "", "check-out date (YYYY-MM-DD)")
		guests := fs.Int("guests", 0, "number of guests")
		maxPrice := fs.Float64("max-price", 0, "maximum price per night")
		_ = fs.Parse(rest)
		return render(a.hotels.Search(ctx, ports.SearchFilters{
			Destination: *destination,
			CheckIn:     *checkIn,
			CheckOut:    *checkOut,
			Guests:      *guests,
			MaxPrice:    *maxPrice,
		}))
	case "show":
		if len(rest) < 1 {
			fmt.Fprintln(os.Stderr, "usage: triporia hotels show <hotel-id>")
			return 2
		}
		return render(a.hotels.Details(ctx, rest[0]))
	default:
		fmt.Fprintf(os.Stderr, "usage: triporia hotels [search|show]\n")
		return 2
	}
}

func (a *app) cmdBookings(ctx context.Context, args []string) int {
	sub, rest := splitSub(args)
	switch sub {
	case "list":
		fs := flag.NewFlagSet("bookings list", flag.ExitOnError)
		cached := fs.Bool("cached", false, "read the offline cache instead of the backend")
		_ = fs.Parse(rest)
		if *cached {
			return render(a.bookings.ListCached(ctx))
		}
		return render(a.bookings.List(ctx))
	case "show":
		if len(rest) < 1 {
			fmt.Fprintln(os.Stderr, "usage: triporia bookings show <booking-id>")
			return 2
		}
		return render(a.bookings.Get(ctx, rest[0]))
	case "create":
		fs := flag.NewFlagSet("bookings create", flag.ExitOnError)
		hotelID := fs.String("hotel", "", "hotel id")
		checkIn := fs.String("check-in", "", "check-in date (YYYY-MM-DD)")
		checkOut := fs.String("check-out", "", "check-out date (YYYY-MM-DD)")
		guests := fs.Int("guests", 1, "number of guests")
		idemKey := fs.String("idempotency-key", "", "retry-safe key (generated when empty)")
		_ = fs.Parse(rest)
		return render(a.bookings.Create(ctx, ports.CreateBookingInput{
			HotelID:        *hotelID,
			CheckIn:        *checkIn,
			CheckOut:       *checkOut,
			Guests:         *guests,
			IdempotencyKey: *idemKey,
		}))
	case "cancel":
		if len(rest) < 1 {
			fmt.Fprintln(os.Stderr, "usage: triporia bookings cancel <booking-id>")
			return 2
		}
		return render(a.bookings.Cancel(ctx, rest[0]))
	default:
		fmt.Fprintf(os.Stderr, "usage: triporia bookings [list|show|create|cancel]\n")
		return 2
	}
}

// cmdPay runs the two-step payment flow: initiate an intent pointing the
// gateway redirect at a localhost listener, wait for the redirect, then
// confirm the intent.
func (a *app) cmdPay(ctx context.Context, args []string) int {
	if len(args) > 0 && args[0] == "confirm" {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: triporia pay confirm <intent-id>")
			return 2
		}
		return render(a.payments.Confirm(ctx, args[1]))
	}

	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	wait := fs.Duration("wait", 5*time.Minute, "how long to wait for the gateway redirect")
	_ = fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: triporia pay <booking-id>")
		return 2
	}
	bookingID := fs.Arg(0)

	srv := callback.New(a.cfg.CallbackPort, a.log)
	returnURL := ""
	if err := srv.Start(); err != nil {
		a.log.Warn().Err(err).Msg("callback listener unavailable, paying without redirect capture")
	} else {
		returnURL = srv.ReturnURL()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	initiated := a.payments.Initiate(ctx, ports.InitiatePaymentInput{BookingID: bookingID, ReturnURL: returnURL})
	if !initiated.Success {
		return render(initiated)
	}
	if initiated.Data.CheckoutURL != "" {
		fmt.Printf("open this checkout page to pay:\n  %s\n", initiated.Data.CheckoutURL)
	}
	if returnURL == "" {
		fmt.Printf("once paid, confirm with: triporia pay confirm %s\n", initiated.Data.IntentID)
		return render(initiated)
	}

	fmt.Println("waiting for the payment gateway redirect...")
	waitCtx, cancel := context.WithTimeout(ctx, *wait)
	defer cancel()
	outcome, err := srv.Wait(waitCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "no redirect received: %v\n", err)
		return 1
	}

	intentID := outcome.IntentID
	if intentID == "" {
		intentID = initiated.Data.IntentID
	}
	return render(a.payments.Confirm(ctx, intentID))
}

func (a *app) cmdReviews(ctx context.Context, args []string) int {
	sub, rest := splitSub(args)
	switch sub {
	case "add":
		fs := flag.NewFlagSet("reviews add", flag.ExitOnError)
		hotelID := fs.String("hotel", "", "hotel id")
		rating := fs.Int("rating", 0, "rating from 1 to 5")
		comment := fs.String("comment", "", "review text")
		_ = fs.Parse(rest)
		return render(a.reviews.Add(ctx, ports.AddReviewInput{HotelID: *hotelID, Rating: *rating, Comment: *comment}))
	case "list":
		if len(rest) < 1 {
			fmt.Fprintln(os.Stderr, "usage: triporia reviews list <hotel-id>")
			return 2
		}
		return render(a.reviews.List(ctx, rest[0]))
	default:
		fmt.Fprintf(os.Stderr, "usage: triporia reviews [add|list]\n")
		return 2
	}
}

func (a *app) cmdSOS(ctx context.Context, args []string) int {
	sub, rest := splitSub(args)
	switch sub {
	case "send":
		fs := flag.NewFlagSet("sos send", flag.ExitOnError)
		lat := fs.Float64("lat", 0, "latitude")
		lng := fs.Float64("lng", 0, "longitude")
		message := fs.String("message", "", "what happened")
		_ = fs.Parse(rest)
		return render(a.sos.Send(ctx, ports.SendSOSInput{Latitude: *lat, Longitude: *lng, Message: *message}))
	case "status":
		if len(rest) < 1 {
			fmt.Fprintln(os.Stderr, "usage: triporia sos status <alert-id>")
			return 2
		}
		return render(a.sos.Status(ctx, rest[0]))
	default:
		fmt.Fprintf(os.Stderr, "usage: triporia sos [send|status]\n")
		return 2
	}
}

func (a *app) cmdAdmin(ctx context.Context, args []string) int {
	sub, rest := splitSub(args)
	switch sub {
	case "dashboard":
		return render(a.admin.Dashboard(ctx))
	case "verify-hotel":
		if len(rest) < 1 {
			fmt.Fprintln(os.Stderr, "usage: triporia admin verify-hotel <hotel-id>")
			return 2
		}
		return render(a.admin.VerifyHotel(ctx, rest[0]))
	case "block-user":
		if len(rest) < 1 {
			fmt.Fprintln(os.Stderr, "usage: triporia admin block-user <user-id>")
			return 2
		}
		return render(a.admin.BlockUser(ctx, rest[0]))
	default:
		fmt.Fprintf(os.Stderr, "usage: triporia admin [dashboard|verify-hotel|block-user]\n")
		return 2
	}
}

// render prints a Result as indented JSON and maps the outcome to the
// process exit code.
func render[T any](res ports.Result[T]) int {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render result: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	if !res.Success {
		return 1
	}
	return 0
}

func splitSub(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

func buildStore(cfg *config.Config, log zerolog.Logger) ports.CredentialStore {
	if cfg.Store == "redis" {
		client, err := store.Connect(context.Background(), store.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err == nil {
			return store.NewRedisStore(client, log)
		}
		log.Warn().Err(err).Msg("redis store unavailable, falling back to file store")
	}
	return store.NewFileStore(cfg.CredentialsFile, log)
}

// openCache opens the sqlite offline cache. A nil cache is acceptable:
// the services treat mirroring as best effort and ListCached degrades to
// an empty list.
func openCache(cfg *config.Config, log zerolog.Logger) ports.OfflineCache {
	c, err := cache.Open(cfg.CacheDB, log)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.CacheDB).Msg("offline cache unavailable")
		return nil
	}
	return c
}

func usage() {
	fmt.Fprint(os.Stderr, `triporia - tourism booking client

usage: triporia <command> [flags]

commands:
  login       -email -password
  register    -name -email -password [-phone] [-role tourist|vendor|admin]
  logout
  whoami      show the local session
  ping        check backend reachability
  profile     show | update [-name] [-email] [-phone]
  otp         send -phone | verify -phone -code
  hotels      search [-destination] [-check-in] [-check-out] [-guests] [-max-price] | show <id>
  bookings    list [--cached] | show <id> | create -hotel -check-in -check-out [-guests] | cancel <id>
  pay         <booking-id> [-wait 5m] | confirm <intent-id>
  reviews     add -hotel -rating [-comment] | list <hotel-id>
  sos         send -lat -lng [-message] | status <alert-id>
  admin       dashboard | verify-hotel <id> | block-user <id>

environment: TRIPORIA_API_URL, TRIPORIA_STORE (file|redis), TRIPORIA_TIMEOUT,
TRIPORIA_CREDENTIALS_FILE, TRIPORIA_CACHE_DB, TRIPORIA_CALLBACK_PORT
`)
}
