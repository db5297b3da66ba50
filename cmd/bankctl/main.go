package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Rina-ui/Front-TP-JEE/internal/bank"
	"github.com/Rina-ui/Front-TP-JEE/internal/dashboard"
	"github.com/Rina-ui/Front-TP-JEE/internal/gate"
	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
	"github.com/Rina-ui/Front-TP-JEE/internal/ledger"
	"github.com/Rina-ui/Front-TP-JEE/internal/logger"
	"github.com/Rina-ui/Front-TP-JEE/internal/models"
	"github.com/Rina-ui/Front-TP-JEE/internal/models/dto"
	"github.com/Rina-ui/Front-TP-JEE/internal/session"
	"github.com/Rina-ui/Front-TP-JEE/internal/storage/file"
	"github.com/Rina-ui/Front-TP-JEE/internal/validation"
)

// app is the single browser context the CLI process stands for.
type app struct {
	log     zerolog.Logger
	session *session.Store
	clients *bank.Clients
	income  *ledger.Ledger
	routes  *gate.Table
}

func main() {
	_ = godotenv.Load()
	log := logger.New(os.Getenv("LOG_LEVEL"))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := open(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("start")
	}
	ctx = gql.WithTokenSource(logger.WithContext(ctx, log), a.session)

	args := os.Args[2:]
	switch cmd {
	case "login":
		err = a.runLogin(ctx, args)
	case "logout":
		err = a.session.ClearSession(ctx)
		if err == nil {
			fmt.Println("Signed out.")
		}
	case "whoami":
		err = a.runWhoami()
	case "dashboard":
		err = a.runDashboard(ctx, args)
	case "accounts":
		err = a.runAccounts(ctx, args)
	case "transactions":
		err = a.runTransactions(ctx, args)
	case "deposit", "withdraw":
		err = a.runCash(ctx, cmd, args)
	case "transfer":
		err = a.runTransfer(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		var invalid *validation.Error
		if errors.As(err, &invalid) {
			for field, msg := range invalid.Fields {
				fmt.Fprintf(os.Stderr, "  %s %s\n", field, msg)
			}
		}
		log.Fatal().Err(err).Str("command", cmd).Msg("command failed")
	}
}

func printUsage() {
	fmt.Println("Bank portal CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  bankctl <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  login         Sign in and remember the session")
	fmt.Println("  logout        Forget the session")
	fmt.Println("  whoami        Show the signed-in identity")
	fmt.Println("  dashboard     Load the dashboard of the signed-in identity")
	fmt.Println("  accounts      List accounts (staff)")
	fmt.Println("  transactions  Show the history of one account")
	fmt.Println("  deposit       Deposit into an account")
	fmt.Println("  withdraw      Withdraw from an account")
	fmt.Println("  transfer      Transfer between two accounts")
	fmt.Println("\nEnvironment: GRAPHQL_ENDPOINT (required), BANKCTL_PROFILE, LOG_LEVEL.")
}

func open(ctx context.Context, log zerolog.Logger) (*app, error) {
	endpoint := strings.TrimSpace(os.Getenv("GRAPHQL_ENDPOINT"))
	if endpoint == "" {
		return nil, errors.New("GRAPHQL_ENDPOINT is required")
	}
	profile, err := profilePath()
	if err != nil {
		return nil, err
	}
	kv, err := file.Open(profile)
	if err != nil {
		return nil, err
	}
	routes, err := gate.DefaultTable()
	if err != nil {
		return nil, err
	}

	st := session.NewStore(kv, log)
	if _, err := st.Rehydrate(ctx); err != nil {
		if !errors.Is(err, session.ErrCorruptPersistedState) {
			return nil, err
		}
		log.Warn().Msg("stored session was unreadable; signed out")
	}

	transport := gql.NewClient(endpoint, &http.Client{Timeout: 30 * time.Second}, log)
	return &app{
		log:     log,
		session: st,
		clients: bank.New(transport, log),
		income:  ledger.New(kv, log),
		routes:  routes,
	}, nil
}

func profilePath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("BANKCTL_PROFILE")); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "bankctl", "profile.json"), nil
}

// enter runs the gate for path as a navigation would.
func (a *app) enter(path string) (*models.Session, error) {
	route, ok := a.routes.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("no route for %s", path)
	}
	decision := gate.Authorize(route, a.session)
	if !decision.Allowed {
		return nil, fmt.Errorf("%s (go to %s)", decision.Reason, decision.Redirect)
	}
	return a.session.Current(), nil
}

func (a *app) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	req := dto.LoginRequest{Email: strings.TrimSpace(*email), Password: *password}
	if err := validation.Struct(req); err != nil {
		return err
	}
	resp, err := a.clients.Auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return fmt.Errorf("sign-in rejected: %w", err)
	}
	if err := a.session.SetSession(ctx, models.Session{Token: resp.Token, Identity: resp.User}); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s). Landing: %s\n", resp.User.Email, resp.User.Role, gate.LandingRoute(resp.User.Role))
	return nil
}

func (a *app) runWhoami() error {
	sess := a.session.Current()
	if sess == nil {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s\t%s\t%s\n", sess.Identity.ID, sess.Identity.Email, sess.Identity.Role)
	return nil
}

func (a *app) runDashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	fanOut := fs.Int("fanout", 8, "concurrent transaction fetches")
	fs.Parse(args)

	sess := a.session.Current()
	if sess == nil {
		return errors.New("not signed in (go to /login)")
	}
	path := gate.LandingRoute(sess.Identity.Role)
	if _, err := a.enter(path); err != nil {
		return err
	}

	src := dashboard.Sources{Accounts: a.clients.Accounts, Transactions: a.clients.Transactions}
	cfg := dashboard.Config{Variant: dashboard.Admin, FanOut: *fanOut}
	owner := ""
	if sess.Identity.Role == models.RoleClient {
		cfg.Variant = dashboard.Client
		src.Income = a.income
		owner = sess.Identity.ID
	} else {
		src.Directory = a.clients.Directory
	}

	snap, err := dashboard.New(src, cfg, a.log).Load(ctx, owner)
	if err != nil {
		return err
	}
	printSnapshot(snap)
	return nil
}

func printSnapshot(s dashboard.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total balance\t%.2f\n", s.TotalBalance)
	fmt.Fprintf(w, "Accounts\t%d (%d active)\n", s.AccountCount, s.ActiveAccounts)
	if s.Variant == dashboard.Admin {
		fmt.Fprintf(w, "Clients\t%d\n", s.ClientCount)
	}
	fmt.Fprintf(w, "Transactions\t%d\n", s.TransactionCount)
	fmt.Fprintf(w, "This month\tincome %.2f  expenses %.2f  profit %.2f\n", s.MonthlyIncome, s.MonthlyExpenses, s.Profit)
	if s.Variant == dashboard.Client {
		fmt.Fprintf(w, "Local income (not synced)\t%.2f\n", s.LocalIncome)
	}
	if len(s.FailedAccounts) > 0 {
		fmt.Fprintf(w, "Unavailable histories\t%s\n", strings.Join(s.FailedAccounts, ", "))
	}
	w.Flush()

	fmt.Println("\nPerformance:")
	for _, m := range s.Performance {
		fmt.Printf("  %-9s %10.2f %10.2f %10.2f\n", m.Label, m.Income, m.Expenses, m.Profit)
	}
	if len(s.RecentTransactions) > 0 {
		fmt.Println("\nRecent:")
		printTransactions(s.RecentTransactions)
	}
}

func (a *app) runAccounts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	client := fs.String("client", "", "only accounts owned by this client id")
	fs.Parse(args)

	if _, err := a.enter("/comptes"); err != nil {
		return err
	}
	var (
		list []models.Account
		err  error
	)
	if *client != "" {
		list, err = a.clients.Accounts.ListByOwner(ctx, *client)
	} else {
		list, err = a.clients.Accounts.ListAll(ctx)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tTYPE\tBALANCE\tACTIVE\tOWNER")
	for _, acc := range list {
		owner := acc.OwnerDisplayName
		if owner == "" {
			owner = "unknown client"
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%t\t%s\n", acc.AccountNumber, acc.Type.Label(), acc.Balance, acc.Active, owner)
	}
	return w.Flush()
}

func (a *app) runTransactions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transactions", flag.ExitOnError)
	number := fs.String("account", "", "account number")
	fs.Parse(args)

	if *number == "" {
		return errors.New("-account is required")
	}
	if _, err := a.enter("/transactions"); err != nil {
		return err
	}
	txs, err := a.clients.Transactions.List(ctx, *number)
	if err != nil {
		return err
	}
	printTransactions(txs)
	return nil
}

func printTransactions(txs []models.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, tx := range txs {
		fmt.Fprintf(w, "  %s\t%s\t%s%.2f\t%.2f\t%s\n",
			tx.Timestamp.Format("2006-01-02 15:04"), tx.Kind, tx.Kind.Sign(), tx.Amount, tx.BalanceAfter, tx.Description)
	}
	w.Flush()
}

func (a *app) runCash(ctx context.Context, kind string, args []string) error {
	fs := flag.NewFlagSet(kind, flag.ExitOnError)
	number := fs.String("account", "", "account number")
	amount := fs.Float64("amount", 0, "amount")
	description := fs.String("description", "", "optional note")
	fs.Parse(args)

	if _, err := a.enter("/transactions"); err != nil {
		return err
	}
	var (
		tx  models.Transaction
		err error
	)
	if kind == "deposit" {
		req := dto.DepositRequest{AccountNumber: *number, Amount: *amount, Description: *description}
		if err := validation.Struct(req); err != nil {
			return err
		}
		tx, err = a.clients.Transactions.Deposit(ctx, req)
	} else {
		req := dto.WithdrawalRequest{AccountNumber: *number, Amount: *amount, Description: *description}
		if err := validation.Struct(req); err != nil {
			return err
		}
		tx, err = a.clients.Transactions.Withdraw(ctx, req)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s %.2f recorded; balance now %.2f\n", tx.Kind, tx.Amount, tx.BalanceAfter)
	return nil
}

func (a *app) runTransfer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	from := fs.String("from", "", "source account number")
	to := fs.String("to", "", "destination account number")
	amount := fs.Float64("amount", 0, "amount")
	description := fs.String("description", "", "optional note")
	fs.Parse(args)

	if _, err := a.enter("/transactions"); err != nil {
		return err
	}
	req := dto.TransferRequest{SourceAccountNumber: *from, DestinationAccountNumber: *to, Amount: *amount, Description: *description}
	if err := validation.Struct(req); err != nil {
		return err
	}
	tx, err := a.clients.Transactions.Transfer(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Transferred %.2f from %s to %s; source balance now %.2f\n", tx.Amount, *from, *to, tx.BalanceAfter)
	return nil
}
