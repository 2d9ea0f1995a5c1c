package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"app/internal/checkout"
	"app/internal/client"
	"app/internal/config"
	"app/internal/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// 端末に貼り付けたコードを1回だけ読むデコーダ。
// カメラの代わりに標準入力から渡されたペイロードを返す。
type stubDecoder struct {
	payload string
	read    bool
}

func (d *stubDecoder) DecodeFrame(ctx context.Context) (string, error) {
	if d.read {
		return "", nil
	}
	d.read = true
	return d.payload, nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadTerminal()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	api := client.New(client.Config{
		BaseURL: cfg.APIBase,
		Token:   cfg.Token,
		Logger:  logger,
	})

	ctx := context.Background()

	if cfg.Token == "" {
		if _, err := api.Login(ctx, cfg.Email, cfg.Password); err != nil {
			fmt.Fprintln(os.Stderr, "login failed:", err)
			os.Exit(1)
		}
		logger.Info("logged in", zap.String("email", cfg.Email))
	}

	session := checkout.NewSession(api, api, checkout.SessionConfig{
		TaxRate:        cfg.TaxRate,
		DebounceWindow: cfg.SearchDebounce,
		OnResults:      printResults,
	}, logger)

	fmt.Println("POS terminal. Type 'help' for commands.")

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		cmd, arg := splitCommand(line)
		switch cmd {
		case "help":
			printHelp()

		case "search":
			// キー入力扱い。静止ウィンドウ後に結果が表示される
			session.Type(ctx, arg)

		case "scan":
			scan := checkout.NewScanSession(&stubDecoder{payload: arg}, cfg.ScanInterval, func(text string) {
				fmt.Println("scanned:", text)
				session.OnScan(ctx, text)
			}, logger)
			scan.Start(ctx)
			<-scan.Done()

		case "pick":
			i, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("usage: pick <n>")
				continue
			}
			if err := session.Select(i); err != nil {
				fmt.Println(err)
				continue
			}
			printCart(session)

		case "qty":
			parts := strings.Fields(arg)
			if len(parts) != 2 {
				fmt.Println("usage: qty <line> <delta>")
				continue
			}
			i, err1 := strconv.Atoi(parts[0])
			d, err2 := strconv.ParseInt(parts[1], 10, 64)
			if err1 != nil || err2 != nil {
				fmt.Println("usage: qty <line> <delta>")
				continue
			}
			if err := session.Ledger().AdjustQuantity(i, d); err != nil {
				fmt.Println(err)
				continue
			}
			printCart(session)

		case "rm":
			i, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("usage: rm <line>")
				continue
			}
			if err := session.Ledger().Remove(i); err != nil {
				fmt.Println(err)
				continue
			}
			printCart(session)

		case "cart":
			printCart(session)

		case "receipt":
			r, err := session.Receipt(time.Now())
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Print(r.Render())

		case "confirm":
			id, err := session.Confirm(ctx)
			if err != nil {
				fmt.Println("confirm failed:", err)
				continue
			}
			fmt.Println("sale completed:", id)

		case "cancel":
			session.Cancel()
			fmt.Println("cart cleared")

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command:", cmd)
		}
	}
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func printResults(res checkout.SearchResult) {
	if res.Err != nil {
		fmt.Println("\nlookup:", res.Err)
		return
	}
	if res.Query == "" {
		return
	}
	fmt.Printf("\nresults for %q:\n", res.Query)
	for i, item := range res.Items {
		fmt.Printf("  [%d] %s - %.2f\n", i, item.ItemName, item.Price)
	}
	fmt.Print("> ")
}

func printCart(s *checkout.Session) {
	lines := s.Ledger().Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for i, ln := range lines {
		fmt.Printf("  [%d] %-24s x%-3d %8.2f\n", i, ln.Item.ItemName, ln.Quantity, ln.Item.Price)
	}
	t := s.Totals()
	fmt.Printf("  subtotal %.2f  tax %.2f  total %.2f\n",
		checkout.Round2(t.Subtotal), checkout.Round2(t.Tax), checkout.Round2(t.GrandTotal))
}

func printHelp() {
	fmt.Println(`commands:
  search <text>    look up items by name or barcode (debounced)
  scan <payload>   simulate a barcode scan
  pick <n>         add result n to the cart
  qty <line> <d>   adjust quantity by d (floor 1)
  rm <line>        remove a cart line
  cart             show the cart
  receipt          print a receipt for the current cart
  confirm          finalize the sale
  cancel           clear the cart
  quit             exit`)
}
