// Package main runs the passkeeper shell: an interactive front end over
// the vault core, standing in for the device UI.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/goodhackers/passkeeper/internal/biometric"
	"github.com/goodhackers/passkeeper/internal/config"
	"github.com/goodhackers/passkeeper/internal/credentials"
	"github.com/goodhackers/passkeeper/internal/generator"
	"github.com/goodhackers/passkeeper/internal/logger"
	"github.com/goodhackers/passkeeper/internal/models"
	"github.com/goodhackers/passkeeper/internal/store"
	"github.com/goodhackers/passkeeper/internal/vault"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const help = `Available commands:
  status              show vault state
  setup               first-time setup (master password + security questions)
  unlock              unlock with the master password
  bio                 unlock with the device biometric
  lock                lock the vault
  list                list credentials
  search <text> [cat] search credentials, optionally in one category
  add                 add a credential
  edit <n>            edit credential number n from the last listing
  del <n>             delete credential number n (asks for confirmation)
  show <n>            print credential number n including its password
  copy <n>            copy the password of credential n to the clipboard
  gen <len> [ulds]    generate a password (u=upper l=lower d=digits s=symbols)
  reset               forgot-password recovery via security questions
  exit                quit`

// orZero returns the first of its arguments that is not the zero value, or
// the zero value if all are. It matches cmp.Or, which needs Go 1.22; the
// build toolchain here is Go 1.21.
func orZero[T comparable](vals ...T) T {
	var zero T
	for _, val := range vals {
		if val != zero {
			return val
		}
	}
	return zero
}

func main() {
	options := config.Parse()

	fmt.Printf("Build version: %s\n", orZero(version, "N/A"))
	fmt.Printf("Build date: %s\n", orZero(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	deviceKey, err := store.LoadDeviceKey(options.KeyPath)
	if err != nil {
		zapLogger.Fatal("cannot load device key", zap.Error(err))
	}
	st, err := store.Open(options.StorePath, deviceKey)
	if err != nil {
		zapLogger.Fatal("cannot open record store", zap.Error(err))
	}
	defer st.Close()

	gate := biometric.Unavailable()
	ctrl := vault.NewController(st, gate, zapLogger)
	mgr := credentials.NewManager(st, ctrl, zapLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	idle := time.Duration(options.AutoLockSeconds) * time.Second
	vault.StartAutoLock(ctx, ctrl, time.Second, idle, zapLogger)

	repl(ctx, ctrl, mgr)
}

// repl runs the interactive shell loop over the vault core.
func repl(ctx context.Context, ctrl *vault.Controller, mgr *credentials.Manager) {
	scanner := bufio.NewScanner(os.Stdin)
	var idMap map[int]string

	for {
		fmt.Print("passkeeper> ")
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println(help)
		case "status":
			state, err := ctrl.Status(ctx)
			if err != nil {
				report(err)
				continue
			}
			fmt.Println("Vault is", state)
		case "setup":
			handleSetup(ctx, ctrl, scanner)
		case "unlock":
			pw := readSecret("Master password: ")
			if err := ctrl.UnlockWithPassword(ctx, pw); err != nil {
				report(err)
			} else {
				fmt.Println("Vault unlocked")
			}
		case "bio":
			if err := ctrl.UnlockWithBiometric(ctx); err != nil {
				report(err)
			} else {
				fmt.Println("Vault unlocked")
			}
		case "lock":
			ctrl.Lock()
			mgr.Reset()
			fmt.Println("Vault locked")
		case "list":
			idMap = handleList(ctx, mgr, "", models.CategoryAll)
		case "search":
			if len(args) < 2 {
				fmt.Println("Usage: search <text> [category]")
				continue
			}
			category := models.CategoryAll
			if len(args) > 2 {
				category = models.Category(strings.Join(args[2:], " "))
			}
			idMap = handleList(ctx, mgr, args[1], category)
		case "add":
			handleAdd(ctx, mgr, scanner)
			idMap = nil
		case "edit", "del", "show", "copy":
			if len(args) < 2 {
				fmt.Printf("Usage: %s <n>\n", args[0])
				continue
			}
			num, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("Invalid item number")
				continue
			}
			id, ok := idMap[num]
			if !ok {
				fmt.Println("Unknown item number; run list first")
				continue
			}
			switch args[0] {
			case "edit":
				handleEdit(ctx, mgr, scanner, id)
				idMap = nil
			case "del":
				handleDelete(ctx, mgr, scanner, id)
				idMap = nil
			case "show":
				handleShow(ctx, mgr, id)
			case "copy":
				handleCopy(ctx, mgr, id)
			}
		case "gen":
			handleGenerate(args[1:])
		case "reset":
			handleReset(ctx, ctrl, scanner)
		case "exit", "quit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// report translates a vault error into a user-facing message.
func report(err error) {
	switch {
	case errors.Is(err, vault.ErrLocked):
		fmt.Println("The vault is locked. Unlock it first.")
	case errors.Is(err, vault.ErrAuthFailed):
		fmt.Println("Authentication failed:", err)
	case errors.Is(err, vault.ErrNotFound):
		fmt.Println("Not found:", err)
	case errors.Is(err, vault.ErrPersistence):
		fmt.Println("Could not save/load your data:", err)
	case errors.Is(err, vault.ErrCorrupt):
		fmt.Println("Stored data is corrupt:", err)
	default:
		fmt.Println("Error:", err)
	}
}

func readLine(scanner *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// readSecret reads a line without echoing it back to the terminal.
func readSecret(prompt string) string {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(pw)
}

func handleSetup(ctx context.Context, ctrl *vault.Controller, scanner *bufio.Scanner) {
	params := vault.SetupParams{
		Password:  readSecret("Master password: "),
		Confirm:   readSecret("Confirm master password: "),
		Question1: readLine(scanner, "Security question #1: "),
		Answer1:   readSecret("Answer #1: "),
		Question2: readLine(scanner, "Security question #2: "),
		Answer2:   readSecret("Answer #2: "),
	}
	if supported, err := ctrl.BiometricSupported(ctx); err == nil && supported {
		answer := readLine(scanner, "Enable fingerprint unlock? [y/N]: ")
		params.EnableBiometric = strings.EqualFold(answer, "y")
	}
	if err := ctrl.Setup(ctx, params); err != nil {
		report(err)
		return
	}
	fmt.Println("Master password and security questions saved. Vault unlocked.")
}

func handleList(ctx context.Context, mgr *credentials.Manager, query string, category models.Category) map[int]string {
	records, err := mgr.Search(ctx, query, category)
	if err != nil {
		report(err)
		return nil
	}
	if len(records) == 0 {
		fmt.Println("No credentials found")
		return nil
	}
	idMap := make(map[int]string, len(records))
	for i, rec := range records {
		num := i + 1
		idMap[num] = rec.ID
		fmt.Printf("%d) %s | %s | %s\n", num, rec.Account, rec.Username, rec.Category)
	}
	return idMap
}

func readFields(scanner *bufio.Scanner) models.CredentialFields {
	fields := models.CredentialFields{
		Account:  readLine(scanner, "Account: "),
		Username: readLine(scanner, "Username: "),
		Password: readSecret("Password (empty to generate): "),
	}
	if fields.Password == "" {
		pw, err := generator.Generate(16, generator.Policy{
			Uppercase: true, Lowercase: true, Digits: true, Symbols: true,
		})
		if err == nil {
			fields.Password = pw
			fmt.Println("Generated password:", pw)
		}
	}
	fields.Website = readLine(scanner, "Website (optional): ")
	fields.Notes = readLine(scanner, "Notes (optional): ")
	category := readLine(scanner, "Category (default General): ")
	if category != "" {
		fields.Category = models.Category(category)
	}
	return fields
}

func handleAdd(ctx context.Context, mgr *credentials.Manager, scanner *bufio.Scanner) {
	rec, err := mgr.Add(ctx, readFields(scanner))
	if err != nil {
		report(err)
		return
	}
	fmt.Println("Credential added:", rec.Account)
}

func handleEdit(ctx context.Context, mgr *credentials.Manager, scanner *bufio.Scanner, id string) {
	rec, err := mgr.Update(ctx, id, readFields(scanner))
	if err != nil {
		report(err)
		return
	}
	fmt.Println("Credential updated:", rec.Account)
}

func handleDelete(ctx context.Context, mgr *credentials.Manager, scanner *bufio.Scanner, id string) {
	// Destructive and irreversible: always confirm.
	answer := readLine(scanner, "Delete this credential? This cannot be undone. [y/N]: ")
	if !strings.EqualFold(answer, "y") {
		fmt.Println("Cancelled")
		return
	}
	if err := mgr.Remove(ctx, id); err != nil {
		report(err)
		return
	}
	fmt.Println("Credential deleted")
}

func handleShow(ctx context.Context, mgr *credentials.Manager, id string) {
	records, err := mgr.List(ctx)
	if err != nil {
		report(err)
		return
	}
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		fmt.Printf("Account:  %s\nUsername: %s\nPassword: %s\nWebsite:  %s\nNotes:    %s\nCategory: %s\n",
			rec.Account, rec.Username, rec.Password, rec.Website, rec.Notes, rec.Category)
		return
	}
	fmt.Println("Credential not found")
}

func handleCopy(ctx context.Context, mgr *credentials.Manager, id string) {
	records, err := mgr.List(ctx)
	if err != nil {
		report(err)
		return
	}
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		if err := clipboard.WriteAll(rec.Password); err != nil {
			fmt.Println("Clipboard error:", err)
			return
		}
		fmt.Println("Password copied to clipboard. Clearing in 30 seconds...")
		time.AfterFunc(30*time.Second, func() {
			_ = clipboard.WriteAll("")
		})
		return
	}
	fmt.Println("Credential not found")
}

func handleGenerate(args []string) {
	length := 16
	classes := "ulds"
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("Usage: gen <len> [ulds]")
			return
		}
		length = n
	}
	if len(args) > 1 {
		classes = strings.ToLower(args[1])
	}
	policy := generator.Policy{
		Uppercase: strings.Contains(classes, "u"),
		Lowercase: strings.Contains(classes, "l"),
		Digits:    strings.Contains(classes, "d"),
		Symbols:   strings.Contains(classes, "s"),
	}
	pw, err := generator.Generate(length, policy)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(pw)
}

func handleReset(ctx context.Context, ctrl *vault.Controller, scanner *bufio.Scanner) {
	q1, q2, err := ctrl.SecurityQuestions(ctx)
	if err != nil {
		report(err)
		return
	}
	fmt.Println("Answer your security questions to reset the master password.")
	fmt.Println("Question 1:", q1)
	answer1 := readSecret("Your answer: ")
	fmt.Println("Question 2:", q2)
	answer2 := readSecret("Your answer: ")
	if err := ctrl.VerifyRecovery(ctx, answer1, answer2); err != nil {
		report(err)
		return
	}
	fmt.Println("Verified. Choose a new master password.")
	newPassword := readSecret("New master password: ")
	confirm := readSecret("Confirm new master password: ")
	if err := ctrl.ResetPassword(ctx, newPassword, confirm); err != nil {
		report(err)
		return
	}
	fmt.Println("Master password reset. Run setup to choose new security questions.")
}
