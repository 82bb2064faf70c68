package similarity_test

import (
	"fmt"

	"github.com/cwbudde/algo-fxfit/measure/similarity"
)

func ExampleSNR() {
	snr, err := similarity.SNR([]float64{1, -1, 1, -1}, []float64{0.9, -0.9, 0.9, -0.9})
	if err != nil {
		panic(err)
	}

	fmt.Printf("%.1f dB\n", snr)
	// Output:
	// 20.0 dB
}
