package main

import (
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	cowio "github.com/dot5enko/snapshot-cow/io"
	"github.com/dot5enko/snapshot-cow/writer"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

const demoBlockSize = 4096

func genFakeBlocks(numBlocks int) []byte {

	data := make([]byte, numBlocks*demoBlockSize)

	// half-random payload so compression has something to chew on
	for i := range data {
		if i%2 == 0 {
			data[i] = byte(rand.Intn(256))
		}
	}

	return data
}

func emitDemoStream(w *writer.CowWriter, data []byte) error {

	if err := w.EmitCopy(0, 1024, 16); err != nil {
		return err
	}

	if err := w.EmitRawBlocks(16, data); err != nil {
		return err
	}

	if err := w.EmitZeroBlocks(16+uint64(len(data)/demoBlockSize), 8); err != nil {
		return err
	}

	return nil
}

func main() {

	storagePath := "./storage"
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		panic(err)
	}

	cowPath := filepath.Join(storagePath, uuid.New().String()+".cow")

	data := genFakeBlocks(64)

	options := writer.Options{
		BlockSize:       demoBlockSize,
		Compression:     "lz4",
		CompressThreads: 4,
	}

	// dry run first to size the operation table
	estimator := writer.New(options, nil)
	if err := estimator.Initialize(); err != nil {
		panic(err)
	}
	if err := emitDemoStream(estimator, data); err != nil {
		panic(err)
	}

	options.OpCountMax = estimator.OpCount()
	finalSize := estimator.GetCowSize()

	log.Printf(" >> estimated %d ops, %d bytes total", options.OpCountMax, finalSize)

	file := cowio.NewFileReader(cowPath)
	if err := file.Open(false); err != nil {
		panic(err)
	}

	w := writer.New(options, file)
	if err := w.Initialize(); err != nil {
		panic(err)
	}

	if err := emitDemoStream(w, data); err != nil {
		panic(err)
	}

	if err := w.EmitLabel(1); err != nil {
		panic(err)
	}

	color.Yellow(" cow written [%d ops] %d bytes, estimated %d [%.2f%%]",
		w.OpCount(), w.GetCowSize(), finalSize, float64(w.GetCowSize())/float64(finalSize)*100.0)

	if err := w.Close(); err != nil {
		panic(err)
	}

	// resume the session at the label we just checkpointed
	resumeFile := cowio.NewFileReader(cowPath)
	if err := resumeFile.Open(false); err != nil {
		panic(err)
	}

	resumed := writer.New(options, resumeFile)
	if err := resumed.InitializeAppend(1); err != nil {
		panic(err)
	}

	header := resumed.Header()
	spew.Dump(header)

	color.Green(" resumed at label 1 with %d committed ops", resumed.OpCount())

	if err := resumed.Finalize(); err != nil {
		panic(err)
	}

	if err := resumed.Close(); err != nil {
		panic(err)
	}
}
