// Command facturactl runs operational tasks against the FacturaFácil
// database: schema migrations, demo data and account creation.
package main

import "github.com/facturafacil/facturafacil/cmd/facturactl/commands"

func main() {
	commands.Execute()
}
