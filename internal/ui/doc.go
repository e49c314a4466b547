// Package ui contains the Bubble Tea program that renders a row of link
// menus inside a tmux popup.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (key presses, mouse clicks, recompute results, navigation
//     results, backend reloads).
//   - Keys pressed while a panel is open first go through the panel bindings
//     in navigation.go; everything else is echoed into the search box at once
//     and a recompute command is issued (input.go). The ranked result comes
//     back as a filterResultMsg and is applied only if it answers the newest
//     request, so the echo never waits on ranking.
//   - Activating a link hands a command.Request to the command bus, which runs
//     the navigator off the loop and returns a command.Result. Results carry
//     the menu id and the show-session generation; a result for a disposed
//     menu or a closed session leaves the loading flags alone, though a
//     successful one still ends the popup unless it was started with --stay.
//
// State ownership:
//   - Each trigger owns an internal/ui/state.Menu: query, matches, visible
//     count, cursor, viewport, and per-link loading flags. No state is shared
//     between menus.
//   - The links catalog lives in internal/state and is replaced by the
//     dispatcher when the backend watcher reports a reload; syncMenus then
//     refreshes, adds, or disposes menus by name.
package ui
