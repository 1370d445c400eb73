//go:build !race

package componente

func passwordHashCost() int {
	return 14
}
