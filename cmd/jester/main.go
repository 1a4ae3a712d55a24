// Jester - a dad-joke robot for the Raspberry Pi.
//
// Tells jokes from a static list, narrates them through whichever
// text-to-speech binary is installed, and wiggles a servo mouth along
// with the audio.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jesterlabs/go-jester/internal/config"
	"github.com/jesterlabs/go-jester/internal/log"
	"github.com/jesterlabs/go-jester/pkg/jokes"
	"github.com/jesterlabs/go-jester/pkg/robot"
	"github.com/jesterlabs/go-jester/pkg/servo"
	"github.com/jesterlabs/go-jester/pkg/speech"
	"github.com/jesterlabs/go-jester/pkg/web"
)

func main() {
	log.Init(os.Getenv("JESTER_LOG_LEVEL"))

	if len(os.Args) < 2 {
		usage()
		return
	}

	switch strings.ToLower(os.Args[1]) {
	case "joke", "tell", "j":
		runJoke(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "status":
		runStatus()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: jester <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  joke [--speak]     Tell one joke (aliases: tell, j)")
	fmt.Println("  serve [--port N]   Run the web page and API")
	fmt.Println("  status             Report servo and speech capabilities")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --speak, -s    Tell the joke out loud using text-to-speech")

	if engine := speech.DetectEngine(nil); engine != speech.EngineNone {
		fmt.Printf("  Text-to-speech engine detected: %s\n", engine)
	} else {
		fmt.Println("  No text-to-speech engine found")
	}
}

func runJoke(args []string) {
	fs := flag.NewFlagSet("joke", flag.ExitOnError)
	speak := fs.Bool("speak", false, "narrate the joke out loud")
	fs.BoolVar(speak, "s", *speak, "narrate the joke out loud (shorthand)")
	fs.Parse(args)

	book := loadBook()
	j := book.Random()

	// Without narration there is nothing for the hardware to do.
	if !*speak {
		displayLine(j.Setup)
		waitForEnter()
		displayLine(j.Punchline)
		return
	}

	bot := newRobot()
	defer bot.Shutdown()

	if !bot.Status().ServoAvailable {
		fmt.Println("🦾 No servo found - telling the joke without the mouth")
	}
	if bot.Status().Engine == string(speech.EngineNone) {
		fmt.Println("Warning: no text-to-speech engine found. Install espeak or libttspico-utils.")
		fmt.Println("Continuing without speech...")
	}

	bot.TellJoke(j, true, displayLine, waitForEnter)
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.String("port", config.Port(), "port to listen on")
	fs.Parse(args)

	bot := newRobot()
	book := loadBook()

	// Release the servo before exiting so it doesn't hold torque.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n👋 Shutting down...")
		bot.Shutdown()
		os.Exit(0)
	}()

	fmt.Println("🤖 Jester - Dad Joke Robot")
	fmt.Printf("   Servo:  %s\n", bot.Status().ServoBackend)
	fmt.Printf("   Voice:  %s\n", bot.Status().Engine)
	fmt.Printf("   Jokes:  %d\n", book.Len())
	fmt.Println()

	server := web.NewServer(*port, bot, book)
	if err := server.Start(); err != nil {
		bot.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: web server failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	bot := newRobot()
	defer bot.Shutdown()

	st := bot.Status()
	fmt.Println("🤖 Jester capabilities")
	if st.ServoAvailable {
		fmt.Printf("   Servo:  ok (%s, GPIO %d)\n", st.ServoBackend, config.ServoPin())
	} else {
		fmt.Printf("   Servo:  unavailable (%s)\n", st.ServoError)
	}
	if st.Engine != string(speech.EngineNone) {
		fmt.Printf("   Voice:  %s (player: %s)\n", st.Engine, st.Player)
	} else {
		fmt.Println("   Voice:  no engine found")
	}
}

// newRobot assembles the hardware context from the environment.
func newRobot() *robot.Robot {
	return robot.New(servoConfig(), speech.WithRate(config.SpeechRate()))
}

func servoConfig() servo.Config {
	return servo.Config{
		Pin:     config.ServoPin(),
		MinDuty: config.ServoMinDuty(),
		MaxDuty: config.ServoMaxDuty(),
		Freq:    config.ServoFreq(),
	}
}

// loadBook loads the joke file. A missing or malformed file is the one
// fatal condition: exit non-zero with the diagnostic.
func loadBook() *jokes.Book {
	var (
		book *jokes.Book
		err  error
	)
	if path := config.JokesPath(); path != "" {
		book, err = jokes.Load(path)
	} else {
		book, err = jokes.LoadEmbedded()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return book
}

func displayLine(line string) {
	fmt.Printf("\n%s\n", line)
}

func waitForEnter() {
	fmt.Print("Press Enter for the punchline...")
	bufio.NewReader(os.Stdin).ReadString('\n')
}
