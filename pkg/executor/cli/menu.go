package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/phonebook/pkg/directory"
)

type menuItem struct {
	label  string
	action func(e *Executor, ctx context.Context) error
}

// menuItems are listed in menu order; the user picks one by its 1-based position.
var menuItems = []menuItem{
	{label: "Add Entry", action: (*Executor).addEntry},
	{label: "Display Entries", action: (*Executor).displayEntries},
	{label: "Search Entries", action: (*Executor).searchEntries},
	{label: "Update Entry", action: (*Executor).updateEntry},
	{label: "Delete Entry", action: (*Executor).deleteEntry},
	{label: "Save Phone Book", action: (*Executor).savePhoneBook},
	{label: "Load Phone Book", action: (*Executor).loadPhoneBook},
	{label: "Exit", action: func(*Executor, context.Context) error { return errExit }},
}

// dispatch runs the action for choice. It only returns an error when
// input fails, ctx is canceled, or the user asked to exit.
func (e *Executor) dispatch(ctx context.Context, choice string) error {
	for i, item := range menuItems {
		if choice == fmt.Sprint(i+1) {
			return item.action(e, ctx)
		}
	}

	fmt.Fprintln(e.writer, "Invalid choice. Please try again.")
	return nil
}

func (e *Executor) addEntry(ctx context.Context) error {
	nationalID, err := e.prompt(ctx, "Enter national ID: ")
	if err != nil {
		return err
	}
	name, err := e.prompt(ctx, "Enter name: ")
	if err != nil {
		return err
	}
	phoneNumber, err := e.prompt(ctx, "Enter phone number: ")
	if err != nil {
		return err
	}

	if _, err := e.dir.Add(nationalID, name, phoneNumber); err != nil {
		e.logger.Warnf("Add rejected: %v", err)
		e.printStatus(err, "Entry not added.")
		return nil
	}

	e.logger.Infof("Added entry")
	fmt.Fprintln(e.writer, "Entry added successfully!")
	return nil
}

func (e *Executor) displayEntries(context.Context) error {
	entries, err := e.dir.List()
	if errors.Is(err, directory.ErrEmpty) {
		fmt.Fprintln(e.writer, "Phone book is empty!")
		return nil
	}
	if err != nil {
		e.printStatus(err, "")
		return nil
	}

	for _, entry := range entries {
		e.printEntry(entry)
	}
	e.logger.Debugf("Displayed %d entries", len(entries))
	return nil
}

func (e *Executor) searchEntries(ctx context.Context) error {
	term, err := e.prompt(ctx, "Enter the search term: ")
	if err != nil {
		return err
	}

	entries, err := e.dir.Search(term)
	if err != nil {
		e.printStatus(err, "")
		return nil
	}

	fmt.Fprintf(e.writer, "Matching Entries (%d):\n", len(entries))
	for _, entry := range entries {
		e.printEntry(entry)
	}
	e.logger.Debugf("Search matched %d entries", len(entries))
	return nil
}

func (e *Executor) updateEntry(ctx context.Context) error {
	nationalID, err := e.prompt(ctx, "Enter the national ID: ")
	if err != nil {
		return err
	}

	current, err := e.dir.Get(nationalID)
	if err != nil {
		e.printStatus(err, "")
		return nil
	}
	e.printEntry(current)

	name, err := e.prompt(ctx, "Enter new name: ")
	if err != nil {
		return err
	}
	phoneNumber, err := e.prompt(ctx, "Enter new phone number: ")
	if err != nil {
		return err
	}

	if _, err := e.dir.Update(nationalID, name, phoneNumber); err != nil {
		e.logger.Warnf("Update rejected: %v", err)
		e.printStatus(err, "Entry not updated.")
		return nil
	}

	e.logger.Infof("Updated entry")
	fmt.Fprintln(e.writer, "Entry updated successfully!")
	return nil
}

func (e *Executor) deleteEntry(ctx context.Context) error {
	nationalID, err := e.prompt(ctx, "Enter the national ID: ")
	if err != nil {
		return err
	}

	if err := e.dir.Delete(nationalID); err != nil {
		e.printStatus(err, "")
		return nil
	}

	e.logger.Infof("Deleted entry")
	fmt.Fprintln(e.writer, "Entry deleted successfully!")
	return nil
}

func (e *Executor) savePhoneBook(context.Context) error {
	if err := e.dir.Save(e.dataFile); err != nil {
		e.logger.Errorf("Save failed: %v", err)
		fmt.Fprintf(e.writer, "Failed to save phone book: %s\n", reason(err))
		return nil
	}

	e.logger.Infof("Saved phone book to %s", e.dataFile)
	fmt.Fprintln(e.writer, "Phone book saved successfully!")
	return nil
}

func (e *Executor) loadPhoneBook(context.Context) error {
	err := e.dir.Load(e.dataFile)
	switch {
	case err == nil:
		e.logger.Infof("Loaded phone book from %s", e.dataFile)
		fmt.Fprintln(e.writer, "Phone book loaded successfully!")
	case errors.Is(err, directory.ErrFileNotExist):
		e.logger.Warnf("Load skipped: %v", err)
		fmt.Fprintln(e.writer, "Phone book file does not exist.")
	default:
		e.logger.Errorf("Load failed: %s", directory.KindOf(err))
		fmt.Fprintf(e.writer, "Failed to load phone book: %s\n", reason(err))
	}
	return nil
}

// reason drops the operation and path from store errors; the menu
// already says which file action failed.
func reason(err error) string {
	var derr *directory.Error
	if errors.As(err, &derr) {
		return derr.Reason()
	}
	return err.Error()
}
