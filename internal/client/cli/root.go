package cli

import (
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

func (a *App) getStatus() string {
	mode := "offline"
	if a.watcher.Online() {
		mode = "online"
	}
	if a.userName != "" {
		return fmt.Sprintf("(%s %s)", a.userName, mode)
	}
	return fmt.Sprintf("(%s)", mode)
}

func (a *App) repl(ctx context.Context) {
	printlnFn("fittrack CLI (type 'help' for commands)")

	for {
		fmt.Printf("ft %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "ex", "exercises":
			a.listExercises(ctx)
		case "metrics":
			a.listMetrics(ctx)
		case "addex":
			a.addExercise(ctx)
		case "addmetric":
			a.addMetric(ctx)
		case "logex":
			a.logExercise(ctx)
		case "logmetric":
			a.logMetric(ctx)
		case "records":
			a.listExerciseRecords(ctx, args)
		case "values":
			a.listMetricRecords(ctx, args)
		case "archive":
			a.archive(ctx, args)
		case "sync":
			a.sync(ctx)
		case "status":
			a.status(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (a *App) help() {
	if a.isLoggedIn() {
		printlnFn("Available commands:")
		printlnFn("  exercises | ex            list exercises")
		printlnFn("  metrics                   list metrics")
		printlnFn("  addex                     add an exercise")
		printlnFn("  addmetric                 add a metric")
		printlnFn("  logex                     log an exercise set")
		printlnFn("  logmetric                 log a metric value")
		printlnFn("  records [from] [to]       list exercise records (dates YYYY-MM-DD)")
		printlnFn("  values [from] [to]        list metric values (dates YYYY-MM-DD)")
		printlnFn("  archive <kind> <id>       archive exercise|metric|record|value")
		printlnFn("  sync                      run a full sync now")
		printlnFn("  status                    show sync status")
		printlnFn("  logout, exit")
	} else {
		printlnFn("Available commands: register, login, status, exit")
	}
}

func (a *App) sync(ctx context.Context) {
	if !a.isLoggedIn() {
		printlnFn("Log in first")
		return
	}
	if err := a.engine.SyncFull(ctx); err != nil {
		printlnFn("Sync failed:", err.Error())
		return
	}
	printlnFn("Sync complete")
}

func (a *App) status(ctx context.Context) {
	mode := "offline"
	if a.watcher.Online() {
		mode = "online"
	}
	printlnFn("Server:", mode)

	if a.isLoggedIn() {
		printlnFn("Logged in as:", a.userName)
	} else {
		printlnFn("Not logged in")
	}

	if n, err := a.engine.QueueLength(ctx); err == nil {
		printlnFn(fmt.Sprintf("Pending changes: %d", n))
	}

	_, syncing, lastErr := a.lifecycle.Status()
	if syncing {
		printlnFn("Sync in progress...")
	}
	if lastErr != "" {
		printlnFn("Last sync error:", lastErr)
	}
}
