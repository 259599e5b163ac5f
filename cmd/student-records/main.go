// student-records is a single-operator command-line tool for keeping
// student academic records as flat files on disk.
//
// Each record lives in its own KEY = VALUE text file under the data
// root; a counter file hands out sequential IDs. The tool can also run
// as a small HTTP server (`student-records serve`) exposing the same
// operations over JSON.
//
// USAGE:
//
//	student-records create --name Asha --family-name Rao ...
//	student-records edit 3 subject2_grade 88.5
//	student-records show 3
//	student-records list
//	student-records reset --yes
//	student-records serve --config=config/local.yaml
package main

func main() {
	Execute()
}
