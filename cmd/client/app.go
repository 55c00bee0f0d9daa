package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/hotel-guest-client/internal/api"
	"github.com/iliyamo/hotel-guest-client/internal/cart"
	"github.com/iliyamo/hotel-guest-client/internal/guard"
	"github.com/iliyamo/hotel-guest-client/internal/model"
	"github.com/iliyamo/hotel-guest-client/internal/notify"
	"github.com/iliyamo/hotel-guest-client/internal/order"
	"github.com/iliyamo/hotel-guest-client/internal/session"
	"github.com/iliyamo/hotel-guest-client/internal/utils"
)

// app is the terminal harness around the core client layer. It renders
// plain text only; every decision (auth, cache, order readiness) lives
// in the internal packages.
type app struct {
	sess     *session.Store
	cart     *cart.Store
	fetcher  *api.Fetcher
	client   *api.Client
	bus      *api.Bus
	composer *order.Composer
	notifier *notify.Notifier
	guard    *guard.Guard
	location string
}

func newApp(sess *session.Store, crt *cart.Store, fetcher *api.Fetcher, client *api.Client, bus *api.Bus, composer *order.Composer, notifier *notify.Notifier) *app {
	return &app{
		sess:     sess,
		cart:     crt,
		fetcher:  fetcher,
		client:   client,
		bus:      bus,
		composer: composer,
		notifier: notifier,
		location: "/",
	}
}

// onGuardChange fires when a session transition forces a move, e.g. a
// logout while on a protected view.
func (a *app) onGuardChange(d guard.Decision) {
	if d.Redirect != "" && d.Redirect != a.location {
		fmt.Printf("-> %s\n", d.Redirect)
		a.location = d.Redirect
	}
}

func (a *app) run() {
	go func() {
		for n := range a.notifier.C() {
			fmt.Printf("[%s] %s\n", n.Level, n.Message)
		}
	}()

	fmt.Println("hotel guest client — type 'help' for commands")
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s (cart:%d)> ", a.location, a.cart.CartCount())
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}
		a.dispatch(cmd, args, line)
	}
}

func (a *app) dispatch(cmd string, args []string, line string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch cmd {
	case "help":
		a.help()
	case "go":
		if len(args) == 1 {
			a.navigate(ctx, args[0])
		}
	case "menu", "rooms", "profile":
		a.navigate(ctx, "/"+cmd)
	case "orders":
		a.navigate(ctx, "/recent-orders")
	case "bookings":
		a.navigate(ctx, "/recent-bookings")
	case "add":
		a.addToCart(ctx, args)
	case "cart":
		a.showCart(ctx)
	case "qty":
		if len(args) == 2 {
			id, _ := strconv.ParseUint(args[0], 10, 64)
			qty, _ := strconv.Atoi(args[1])
			a.cart.UpdateQuantity(id, qty)
		}
	case "rm":
		if len(args) == 1 {
			id, _ := strconv.ParseUint(args[0], 10, 64)
			a.cart.RemoveFromCart(id)
		}
	case "dest":
		if len(args) == 1 {
			a.composer.SetDestinationKind(order.DestinationKind(args[0]))
		}
	case "select":
		if len(args) == 1 {
			id, _ := strconv.ParseUint(args[0], 10, 64)
			a.composer.SetDestination(id)
		}
	case "notes":
		a.composer.SetNotes(strings.TrimSpace(strings.TrimPrefix(line, "notes")))
	case "tables":
		a.showTables(ctx)
	case "order":
		a.placeOrder(ctx)
	case "cancel":
		if len(args) == 1 {
			id, _ := strconv.ParseUint(args[0], 10, 64)
			_ = a.composer.CancelOrder(ctx, id)
		}
	case "book":
		a.book(ctx, args)
	case "login":
		a.login(ctx, args)
	case "register":
		a.register(ctx, args)
	case "logout":
		a.sess.Logout()
		fmt.Println("signed out")
	default:
		fmt.Println("unknown command, try 'help'")
	}
}

func (a *app) help() {
	fmt.Print(`views:    menu rooms orders bookings profile | go <path>
cart:     add <menuId> | cart | qty <id> <n> | rm <id>
order:    dest table|room | select <id> | tables | notes <text> | order | cancel <orderId>
booking:  book <roomId> [nights]
session:  login <email> <password> | register <name> <email> <password> | logout
`)
}

// navigate runs the guard for the requested path and renders whatever
// view the guest lands on.
func (a *app) navigate(ctx context.Context, path string) {
	d := a.guard.Navigate(path)
	if d.Placeholder {
		fmt.Println("loading…")
		return
	}
	if d.Redirect != "" {
		fmt.Printf("-> %s\n", d.Redirect)
		a.location = d.Redirect
		return
	}
	a.location = path
	a.render(ctx, path)
}

func (a *app) render(ctx context.Context, path string) {
	switch {
	case path == "/" || path == "":
		fmt.Println("welcome — browse the menu or the rooms")
	case path == "/menu":
		a.showMenu(ctx)
	case path == "/rooms":
		a.showRooms(ctx)
	case strings.HasPrefix(path, "/recent-orders"):
		a.showOrders(ctx)
	case strings.HasPrefix(path, "/recent-bookings"):
		a.showBookings(ctx)
	case strings.HasPrefix(path, "/profile"):
		a.showProfile()
	case strings.HasPrefix(path, "/sign-in"):
		fmt.Println("sign in with: login <email> <password>")
	case strings.HasPrefix(path, "/sign-up"):
		fmt.Println("register with: register <name> <email> <password>")
	default:
		fmt.Println("nothing here")
	}
}

func (a *app) showMenu(ctx context.Context) {
	items, err := api.FetchAs[[]model.MenuItem](ctx, a.fetcher, "/api/menu", "menu")
	if err != nil {
		fmt.Println(api.Message(err))
		return
	}
	for _, it := range items {
		fmt.Printf("%4d  %-24s %8.2f  %s\n", it.ID, it.Name, it.Price, it.Category)
	}
}

func (a *app) showRooms(ctx context.Context) {
	rooms, err := api.FetchAs[[]model.Room](ctx, a.fetcher, "/api/rooms", "rooms")
	if err != nil {
		fmt.Println(api.Message(err))
		return
	}
	for _, r := range rooms {
		fmt.Printf("%4d  room %-5s %-20s %8.2f/night\n", r.ID, r.Number, r.Name, r.Price)
	}
}

func (a *app) showTables(ctx context.Context) {
	tables, err := a.composer.AvailableTables(ctx)
	if err != nil {
		fmt.Println(api.Message(err))
		return
	}
	if len(tables) == 0 {
		fmt.Println("no available tables at the moment")
		return
	}
	for _, t := range tables {
		fmt.Printf("%4d  table %-4s %d seats\n", t.ID, t.Number, t.Capacity)
	}
}

func (a *app) showOrders(ctx context.Context) {
	for _, o := range a.composer.Orders() {
		printOrder(o)
	}
	user := a.sess.User()
	orders, err := api.FetchAs[[]model.Order](ctx, a.fetcher, "/api/orders", "orders")
	if err != nil {
		fmt.Println(api.Message(err))
		return
	}
	for _, o := range orders {
		if user != nil && o.UserID == user.ID {
			printOrder(o)
		}
	}
}

func printOrder(o model.Order) {
	dest := ""
	if o.TableID != nil {
		dest = fmt.Sprintf("table %d", *o.TableID)
	} else if o.RoomID != nil {
		dest = fmt.Sprintf("room %d", *o.RoomID)
	}
	fmt.Printf("#%d  %-10s %-10s %8.2f  %d items\n", o.ID, o.Status, dest, o.Total, len(o.Items))
}

func (a *app) showBookings(ctx context.Context) {
	user := a.sess.User()
	if user == nil {
		return
	}
	bookings, err := api.FetchAs[[]model.Booking](ctx, a.fetcher, "/api/bookings", "bookings")
	if err != nil {
		fmt.Println(api.Message(err))
		return
	}
	for _, b := range bookings {
		if b.UserID == user.ID {
			fmt.Printf("#%d  room %-5s %-10s %s → %s\n", b.ID, b.Room.Number, b.Status,
				b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"))
		}
	}
}

func (a *app) showProfile() {
	user := a.sess.User()
	if user == nil {
		fmt.Println("not signed in")
		return
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	if exp, ok := utils.TokenExpiry(a.sess.Token()); ok {
		fmt.Printf("session valid until %s\n", exp.Local().Format(time.RFC822))
	}
}

func (a *app) showCart(ctx context.Context) {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("your cart is empty")
		return
	}
	for _, it := range items {
		fmt.Printf("%4d  %-24s %2d × %6.2f = %8.2f\n", it.ID, it.Name, it.Quantity, it.Price, it.Price*float64(it.Quantity))
	}
	kind, destID := a.composer.Destination()
	fmt.Printf("destination: %s", kind)
	if destID != 0 {
		fmt.Printf(" #%d", destID)
	}
	fmt.Printf("\nsubtotal %.2f | tax %.2f | total %.2f | ready: %v\n",
		a.composer.Subtotal(), a.composer.Tax(), a.composer.Total(), a.composer.CanSubmit(ctx))
}

func (a *app) addToCart(ctx context.Context, args []string) {
	if len(args) != 1 {
		return
	}
	id, _ := strconv.ParseUint(args[0], 10, 64)
	items, err := api.FetchAs[[]model.MenuItem](ctx, a.fetcher, "/api/menu", "menu")
	if err != nil {
		fmt.Println(api.Message(err))
		return
	}
	for _, it := range items {
		if it.ID == id {
			a.cart.AddToCart(it)
			fmt.Printf("added %s\n", it.Name)
			return
		}
	}
	fmt.Println("no such menu item")
}

func (a *app) placeOrder(ctx context.Context) {
	created, err := a.composer.PlaceOrder(ctx)
	if err != nil {
		return // the composer already surfaced the message
	}
	fmt.Printf("order #%d placed, total %.2f\n", created.ID, created.Total)
}

func (a *app) book(ctx context.Context, args []string) {
	if len(args) < 1 {
		return
	}
	roomID, _ := strconv.ParseUint(args[0], 10, 64)
	nights := 1
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil && n > 0 {
			nights = n
		}
	}
	m := api.NewMutator(a.client, a.bus, "/api/bookings", api.Options{
		RequireAuth: true,
		Invalidates: []string{"bookings"},
	})
	body := map[string]any{
		"roomId":   roomID,
		"checkIn":  time.Now().UTC(),
		"checkOut": time.Now().UTC().Add(time.Duration(nights) * 24 * time.Hour),
	}
	if _, err := m.Do(ctx, body); err != nil {
		fmt.Println(api.Message(err))
		return
	}
	fmt.Println("booking confirmed")
}

func (a *app) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: login <email> <password>")
		return
	}
	m := api.NewMutator(a.client, a.bus, "/api/auth/login", api.Options{})
	data, err := m.Do(ctx, map[string]string{"email": args[0], "password": args[1]})
	if err != nil {
		fmt.Println(api.Message(err))
		return
	}
	var resp struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		fmt.Println("unexpected login response")
		return
	}
	// Capture the return path the guard attached when it bounced the
	// guest here; the login below reruns the guard and moves the
	// location off the sign-in view.
	back := ""
	if u, err := url.Parse(a.location); err == nil {
		back = u.Query().Get("redirect")
	}

	if err := a.sess.Login(resp.User, resp.Token); err != nil {
		fmt.Println(api.Message(err))
		return
	}
	fmt.Printf("welcome back, %s\n", resp.User.Name)

	if back != "" {
		a.navigate(ctx, back)
		return
	}
	a.navigate(ctx, "/")
}

func (a *app) register(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Println("usage: register <name> <email> <password>")
		return
	}
	m := api.NewMutator(a.client, a.bus, "/api/users", api.Options{})
	body := map[string]string{"name": args[0], "email": args[1], "password": args[2]}
	if _, err := m.Do(ctx, body); err != nil {
		fmt.Println(api.Message(err))
		return
	}
	fmt.Println("registered — now sign in")
	a.login(ctx, args[1:])
}
