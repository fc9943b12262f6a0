package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"dailydiet/pkg/config"
)

// ANSI
const (
	Reset    = "\033[0m"
	Bold     = "\033[1m"
	Dim      = "\033[2m"
	White    = "\033[97m"
	Black    = "\033[30m"
	Green    = "\033[32m"
	Yellow   = "\033[33m"
	Red      = "\033[31m"
	Cyan     = "\033[36m"
	BgGreen  = "\033[42m"
	BgYellow = "\033[43m"
	BgCyan   = "\033[46m"
)

type shell struct {
	api       *apiClient
	apiDB     *shellDB
	analytics *shellDB
	audit     *shellDB
}

func main() {
	cfg := config.Load()

	client, err := newAPIClient(cfg.APIBaseURL)
	if err != nil {
		fmt.Printf("%s[x] %v%s\n", Red, err, Reset)
		os.Exit(1)
	}

	sh := &shell{
		api:       client,
		apiDB:     openShellDB("api", config.LoadForService("API")),
		analytics: openShellDB("analytics", config.LoadForService("ANALYTICS")),
		audit:     openShellDB("audit", config.LoadForService("AUDIT")),
	}
	defer sh.close()

	clearScreen()
	printBanner(cfg.APIBaseURL)
	sh.loop()
}

func (sh *shell) close() {
	for _, db := range []*shellDB{sh.apiDB, sh.analytics, sh.audit} {
		db.close()
	}
}

func (sh *shell) loop() {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(sh.prompt())

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if !sh.dispatch(input) {
			fmt.Printf("\n%s%s  Bye %s\n\n", BgCyan, Black, Reset)
			return
		}
		fmt.Println()
	}
}

// dispatch runs one command line and reports whether the shell should keep going.
func (sh *shell) dispatch(input string) bool {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "exit", "quit", "q":
		return false

	case "help", "?":
		printHelp()

	case "clear", "cls":
		clearScreen()
		printBanner(sh.api.base)

	case "status", "s":
		printDockerStatus()
		fmt.Println()
		printHealthChecks(sh.api.base)

	case "docker", "d":
		printDockerStatus()

	case "health", "h":
		printHealthChecks(sh.api.base)

	case "queues", "rabbit":
		printRabbitQueues()

	case "up":
		shellExec("docker", "compose", "up", "-d", "--build")

	case "down":
		shellExec("docker", "compose", "down", "-v")

	case "logs":
		if len(args) > 0 {
			shellExec("docker", "compose", "logs", "-f", "--tail=50", args[0])
		} else {
			shellExec("docker", "compose", "logs", "-f", "--tail=30")
		}

	// --- Account ---
	case "register":
		if len(args) < 5 {
			usage("register <name> <age> <weight> <email> <password>")
			break
		}
		sh.register(args)

	case "login":
		if len(args) < 2 {
			usage("login <email> <password>")
			break
		}
		sh.call("POST", "/users/login", map[string]string{"email": args[0], "password": args[1]})

	case "logout":
		sh.logout()

	case "users":
		sh.call("GET", "/users", nil)

	// --- Meals ---
	case "meals":
		sh.call("GET", "/meals", nil)

	case "meal":
		if len(args) < 1 {
			usage("meal <id>")
			break
		}
		sh.call("GET", "/meals/"+args[0], nil)

	case "add-meal":
		if len(args) < 3 {
			usage("add-meal <diet:true|false> <name> <description...>")
			break
		}
		sh.addMeal(args)

	case "update-meal":
		if len(args) < 2 {
			usage("update-meal <id> field=value [field=value...]")
			break
		}
		sh.updateMeal(args[0], args[1:])

	case "delete-meal":
		if len(args) < 1 {
			usage("delete-meal <id>")
			break
		}
		sh.call("DELETE", "/meals/"+args[0], nil)

	case "summary":
		sh.call("GET", "/meals/summary", nil)

	// --- Consumers ---
	case "metrics":
		sh.analytics.showMealMetrics()

	case "daily":
		sh.analytics.showDailyTotals()

	case "audit":
		sh.audit.showAuditLog()

	case "analytics-keys":
		sh.analytics.showIdempotencyKeys()

	case "audit-keys":
		sh.audit.showIdempotencyKeys()

	// --- DB inspection ---
	case "tables-api":
		sh.apiDB.showTables()

	case "tables-analytics":
		sh.analytics.showTables()

	case "tables-audit":
		sh.audit.showTables()

	case "sql-api":
		sh.apiDB.rawSQL(strings.TrimSpace(strings.TrimPrefix(input, cmd)))

	case "sql-analytics":
		sh.analytics.rawSQL(strings.TrimSpace(strings.TrimPrefix(input, cmd)))

	case "sql-audit":
		sh.audit.rawSQL(strings.TrimSpace(strings.TrimPrefix(input, cmd)))

	default:
		// Pass through to system shell
		shellExecRaw(input)
	}

	return true
}

func (sh *shell) prompt() string {
	barBg := BgYellow
	session := "no session"
	if id := sh.api.sessionID(); id != "" {
		barBg = BgGreen
		session = "session " + shortID(id)
	}

	containerTag := ""
	if isInsideContainer() {
		containerTag = fmt.Sprintf(" %s%s  CONTAINER %s", BgCyan, Black, Reset)
	}

	bar := fmt.Sprintf("%s%s diet  %s | %s %s%s", barBg, Black, sh.api.base, session, Reset, containerTag)
	return fmt.Sprintf("%s\n%s>%s ", bar, Cyan, Reset)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func usage(text string) {
	fmt.Printf("  %sUsage: %s%s\n", Red, text, Reset)
}

func printHelp() {
	fmt.Println()
	fmt.Printf("  %s%sCommands%s\n", Bold, White, Reset)
	fmt.Printf("  %sstatus%s  s    containers + health\n", Green, Reset)
	fmt.Printf("  %sdocker%s  d    container status\n", Green, Reset)
	fmt.Printf("  %shealth%s  h    health checks\n", Green, Reset)
	fmt.Printf("  %squeues%s       rabbitmq queues\n", Green, Reset)
	fmt.Println()
	fmt.Printf("  %s--- Stack ---%s\n", Dim, Reset)
	fmt.Printf("  %sup%s / %sdown%s    start / stop stack\n", Green, Reset, Green, Reset)
	fmt.Printf("  %slogs%s [svc]   tail logs\n", Green, Reset)
	fmt.Println()
	fmt.Printf("  %s--- Account ---%s\n", Dim, Reset)
	fmt.Printf("  %sregister%s     <name> <age> <weight> <email> <password>\n", Green, Reset)
	fmt.Printf("  %slogin%s        <email> <password>\n", Green, Reset)
	fmt.Printf("  %slogout%s       forget the session cookie\n", Green, Reset)
	fmt.Printf("  %susers%s        list user profiles\n", Green, Reset)
	fmt.Println()
	fmt.Printf("  %s--- Meals ---%s\n", Dim, Reset)
	fmt.Printf("  %smeals%s        list meals\n", Green, Reset)
	fmt.Printf("  %smeal%s         <id>\n", Green, Reset)
	fmt.Printf("  %sadd-meal%s     <diet> <name> <description...>\n", Green, Reset)
	fmt.Printf("  %supdate-meal%s  <id> name=.. description=.. diet=.. date_time=..\n", Green, Reset)
	fmt.Printf("  %sdelete-meal%s  <id>\n", Green, Reset)
	fmt.Printf("  %ssummary%s      totals and best streak\n", Green, Reset)
	fmt.Println()
	fmt.Printf("  %s--- Consumers ---%s\n", Dim, Reset)
	fmt.Printf("  %smetrics%s      meal metrics (with bars)\n", Green, Reset)
	fmt.Printf("  %sdaily%s        daily totals (last 14d)\n", Green, Reset)
	fmt.Printf("  %saudit%s        account audit log\n", Green, Reset)
	fmt.Printf("  %sanalytics-keys%s / %saudit-keys%s  idempotency keys\n", Green, Reset, Green, Reset)
	fmt.Println()
	fmt.Printf("  %s--- DB ---%s\n", Dim, Reset)
	fmt.Printf("  %stables-api%s / %stables-analytics%s / %stables-audit%s\n", Green, Reset, Green, Reset, Green, Reset)
	fmt.Printf("  %ssql-api%s / %ssql-analytics%s / %ssql-audit%s <query>\n", Green, Reset, Green, Reset, Green, Reset)
	fmt.Println()
	fmt.Printf("  %sclear%s        clear screen\n", Green, Reset)
	fmt.Printf("  %sexit%s         quit shell\n", Green, Reset)
	fmt.Println()
	fmt.Printf("  %sAnything else is passed to your system shell.%s\n", Dim, Reset)
}

func printBanner(base string) {
	fmt.Println()
	fmt.Printf("  %s%s>> Daily Diet%s %s%s%s\n", Bold, Cyan, Reset, Dim, base, Reset)
	fmt.Printf("  %sType 'help' for commands, or use any shell command%s\n", Dim, Reset)
	fmt.Println()
}
