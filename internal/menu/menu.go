// Package menu implements the interactive numbered menu loop.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"taskman/internal/todo"
)

// Choice identifies one menu entry. Values match the numbers shown to the
// user.
type Choice int

const (
	ChoiceAdd Choice = iota + 1
	ChoiceViewAll
	ChoiceViewPending
	ChoiceComplete
	ChoiceRemove
	ChoiceClearCompleted
	ChoiceStats
	ChoiceHelp
	ChoiceExit
)

// Loop drives the interactive session: one store operation per iteration
// until exit is chosen or input runs out.
type Loop struct {
	store  *todo.Store
	in     *bufio.Scanner
	out    io.Writer
	logger *log.Logger
}

// New creates a loop over the store reading from in and writing to out.
func New(store *todo.Store, in io.Reader, out io.Writer, logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		store:  store,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Run blocks on input each iteration and dispatches one operation per
// choice. It returns nil on exit, EOF, or context cancellation.
func (l *Loop) Run(ctx context.Context) error {
	fmt.Fprintln(l.out, "Welcome to taskman, your personal to-do list.")
	fmt.Fprintf(l.out, "Tasks are stored in: %s\n", l.store.Path())

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(l.out, "\nGoodbye. Your tasks have been saved.")
			return nil
		}

		l.printMenu()
		line, ok := l.readLine("Enter your choice (1-9): ")
		if !ok {
			fmt.Fprintln(l.out, "\nGoodbye. Your tasks have been saved.")
			return nil
		}

		choice, err := parseChoice(line)
		if err != nil {
			fmt.Fprintln(l.out, "Invalid choice, enter a number between 1 and 9.")
			continue
		}

		if choice == ChoiceExit {
			fmt.Fprintln(l.out, "Goodbye. Your tasks have been saved.")
			return nil
		}

		l.dispatch(choice)
	}
}

func (l *Loop) dispatch(choice Choice) {
	switch choice {
	case ChoiceAdd:
		l.handleAdd()
	case ChoiceViewAll:
		l.handleViewAll()
	case ChoiceViewPending:
		l.handleViewPending()
	case ChoiceComplete:
		l.handleComplete()
	case ChoiceRemove:
		l.handleRemove()
	case ChoiceClearCompleted:
		l.handleClearCompleted()
	case ChoiceStats:
		l.handleStats()
	case ChoiceHelp:
		l.handleHelp()
	}
}

// parseChoice converts a menu input line to a Choice. Out-of-range and
// non-numeric input is ErrInvalidInput.
func parseChoice(line string) (Choice, error) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("menu choice %q: %w", line, todo.ErrInvalidInput)
	}
	c := Choice(n)
	if c < ChoiceAdd || c > ChoiceExit {
		return 0, fmt.Errorf("menu choice %d out of range: %w", n, todo.ErrInvalidInput)
	}
	return c, nil
}

// parseID converts an ID input line to a task ID.
func parseID(line string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("task id %q: %w", line, todo.ErrInvalidInput)
	}
	return id, nil
}

// readLine prompts and reads one line. ok is false once input is exhausted.
func (l *Loop) readLine(prompt string) (line string, ok bool) {
	fmt.Fprint(l.out, prompt)
	if !l.in.Scan() {
		return "", false
	}
	return l.in.Text(), true
}

func (l *Loop) printMenu() {
	fmt.Fprint(l.out, `
==================================================
TO-DO LIST MANAGER
==================================================
1. Add Task
2. View All Tasks
3. View Pending Tasks Only
4. Mark Task as Completed
5. Remove Task
6. Clear Completed Tasks
7. Show Statistics
8. Help
9. Exit
--------------------------------------------------
`)
}

func (l *Loop) handleAdd() {
	desc, ok := l.readLine("Enter task description: ")
	if !ok {
		return
	}

	task, err := l.store.Add(desc)
	if err != nil {
		if errors.Is(err, todo.ErrInvalidInput) {
			fmt.Fprintln(l.out, "Task description cannot be empty.")
			return
		}
		// The task is in memory; only the save failed.
		l.logger.Warn("task added but not saved", "err", err)
	}
	fmt.Fprintf(l.out, "Added task [%d] %s\n", task.ID, task.Description)
}

func (l *Loop) handleViewAll() {
	if l.store.Len() == 0 {
		fmt.Fprintln(l.out, "\nNo tasks found. Your to-do list is empty.")
		return
	}

	fmt.Fprintf(l.out, "\nYour To-Do List (%d tasks):\n", l.store.Len())
	fmt.Fprintln(l.out, strings.Repeat("-", 60))

	stats := l.store.Stats()
	if stats.Pending > 0 {
		fmt.Fprintln(l.out, "PENDING:")
		for task := range l.store.Tasks(todo.FilterPending) {
			fmt.Fprintf(l.out, "  [%d] %s\n", task.ID, task.Description)
			fmt.Fprintf(l.out, "      Created: %s\n", task.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}
	if stats.Completed > 0 {
		fmt.Fprintln(l.out, "COMPLETED:")
		for task := range l.store.Tasks(todo.FilterCompleted) {
			fmt.Fprintf(l.out, "  [%d] %s\n", task.ID, task.Description)
			if task.CompletedAt != nil {
				fmt.Fprintf(l.out, "      Completed: %s\n", task.CompletedAt.Format("2006-01-02 15:04:05"))
			}
		}
	}

	fmt.Fprintln(l.out, strings.Repeat("-", 60))
	fmt.Fprintf(l.out, "Summary: %d pending, %d completed\n", stats.Pending, stats.Completed)
}

func (l *Loop) handleViewPending() {
	if l.printPending() == 0 {
		fmt.Fprintln(l.out, "\nNo pending tasks. You're all caught up.")
	}
}

// printPending lists pending tasks and returns how many were printed.
func (l *Loop) printPending() int {
	count := l.store.Stats().Pending
	if count == 0 {
		return 0
	}

	fmt.Fprintf(l.out, "\nPending Tasks (%d):\n", count)
	for task := range l.store.Tasks(todo.FilterPending) {
		fmt.Fprintf(l.out, "  [%d] %s\n", task.ID, task.Description)
	}
	return count
}

func (l *Loop) handleComplete() {
	if l.printPending() == 0 {
		fmt.Fprintln(l.out, "\nNo pending tasks to complete.")
		return
	}

	line, ok := l.readLine("Enter task ID to mark as completed: ")
	if !ok {
		return
	}
	id, err := parseID(line)
	if err != nil {
		fmt.Fprintln(l.out, "Please enter a valid task ID (number).")
		return
	}

	task, err := l.store.Complete(id)
	switch {
	case errors.Is(err, todo.ErrNotFound):
		fmt.Fprintf(l.out, "No task found with ID %d.\n", id)
		return
	case err != nil:
		l.logger.Warn("task completed but not saved", "err", err)
	}
	fmt.Fprintf(l.out, "Marked as completed: %s\n", task.Description)
}

func (l *Loop) handleRemove() {
	l.handleViewAll()
	if l.store.Len() == 0 {
		return
	}

	line, ok := l.readLine("Enter task ID to remove: ")
	if !ok {
		return
	}
	id, err := parseID(line)
	if err != nil {
		fmt.Fprintln(l.out, "Please enter a valid task ID (number).")
		return
	}

	task, err := l.store.Remove(id)
	switch {
	case errors.Is(err, todo.ErrNotFound):
		fmt.Fprintf(l.out, "No task found with ID %d.\n", id)
		return
	case err != nil:
		l.logger.Warn("task removed but not saved", "err", err)
	}
	fmt.Fprintf(l.out, "Removed task: %s\n", task.Description)
}

func (l *Loop) handleClearCompleted() {
	removed, err := l.store.ClearCompleted()
	if err != nil {
		l.logger.Warn("completed tasks cleared but not saved", "err", err)
	}
	if removed == 0 {
		fmt.Fprintln(l.out, "No completed tasks to clear.")
		return
	}
	fmt.Fprintf(l.out, "Cleared %d completed task(s).\n", removed)
}

func (l *Loop) handleStats() {
	stats := l.store.Stats()
	if stats.Total == 0 {
		fmt.Fprintln(l.out, "\nStatistics: no tasks available.")
		return
	}

	fmt.Fprintln(l.out, "\nTask Statistics:")
	fmt.Fprintf(l.out, "  Total tasks: %d\n", stats.Total)
	fmt.Fprintf(l.out, "  Completed: %d\n", stats.Completed)
	fmt.Fprintf(l.out, "  Pending: %d\n", stats.Pending)
	fmt.Fprintf(l.out, "  Completion rate: %.1f%%\n", stats.CompletionRate)
}

func (l *Loop) handleHelp() {
	fmt.Fprintf(l.out, `
How to use taskman:
  - Add Task: enter a description for your new task
  - View Tasks: see all your tasks with their status
  - Mark Completed: enter the task ID to mark it as done
  - Remove Task: enter the task ID to delete it permanently
  - Task IDs: each task has a unique number in [brackets]
  - Data Storage: tasks are automatically saved to %s
`, l.store.Path())
}
