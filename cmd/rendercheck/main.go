package main

import (
	"flag"
	"fmt"
	"log"

	"cardforge/pkg/verify"
)

func main() {
	amount := flag.String("amount", "", "expected amount string (e.g. 0.558938487)")
	opID := flag.String("opid", "", "expected operation id (e.g. WD1234567)")
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: rendercheck [-amount N] [-opid WDxxxxxxx] card.png")
	}

	rep, err := verify.CheckCard(flag.Arg(0), *amount, *opID)
	if err != nil {
		log.Fatalf("check failed: %v", err)
	}
	fmt.Printf("text=%q\n", rep.Text)
	fmt.Printf("opid: found=%q ok=%v\n", rep.FoundOpID, rep.OpIDOK)
	fmt.Printf("amount: found=%q ok=%v\n", rep.FoundAmount, rep.AmountOK)
}
