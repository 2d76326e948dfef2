// Command defect-lens снимает деталь камерой и получает отчёт о дефектах.
//
// Использование:
//
//	defect-lens bot
//	defect-lens scan [--image part.jpg] [--format json]
//	defect-lens serve
package main

func main() {
	Execute()
}
