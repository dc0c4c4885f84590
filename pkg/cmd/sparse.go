// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/consensys/go-series/pkg/coeff"
	"github.com/consensys/go-series/pkg/key"
	"github.com/consensys/go-series/pkg/series"
	"github.com/consensys/go-series/pkg/symbol"
	"github.com/spf13/cobra"
)

// The classical sparse benchmark: expand f = (1 + x1 + ... + xk)^n and then
// square it.  The result's term count depends only on the shape, so repeated
// runs double as a stability check.
var sparseCmd = &cobra.Command{
	Use:   "sparse",
	Short: "run the dense-product sparse benchmark.",
	Long: `Expand f = (1 + x1 + ... + xk)^n, square it, and report term counts and
	 timings.  This exercises the estimator and the parallel multiplication kernel.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			nvars   = GetUint(cmd, "vars")
			power   = GetUint(cmd, "power")
			psize   = GetUint(cmd, "psize")
			trunc   = GetInt64(cmd, "truncate")
			factory = key.DPackedFactory{PSize: psize}
			ring    = coeff.IntRing{}
		)
		//
		names := make([]string, nvars)
		//
		for i := range names {
			names[i] = fmt.Sprintf("x%d", i+1)
		}
		//
		symbols := symbol.NewSet(names...)
		//
		var tag *series.Truncation
		//
		if trunc >= 0 {
			tag = series.Total(trunc)
		}
		// Build 1 + x1 + ... + xk.
		base, err := series.One(factory, ring, symbols, tag)
		checkError(err)
		//
		for _, n := range names {
			x, err := series.MakeGeneratorIn(factory, ring, symbols, n, tag)
			checkError(err)
			//
			_, err = series.AddInPlace(base, x)
			checkError(err)
		}
		// Expand f.
		start := time.Now()
		f, err := series.Pow(base, power)
		checkError(err)
		//
		fmt.Printf("expanded f = (1 + %d vars)^%d: %d terms in %.2fs\n",
			nvars, power, f.Len(), time.Since(start).Seconds())
		// Square it.
		start = time.Now()
		g, err := series.Mul(f, f)
		checkError(err)
		//
		fmt.Printf("squared f: %d terms in %.2fs (%d Mb)\n",
			g.Len(), time.Since(start).Seconds(), series.ByteSize(g)/1024/1024)
	},
}

func checkError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(sparseCmd)
	sparseCmd.Flags().Uint("vars", 5, "number of variables")
	sparseCmd.Flags().Uint("power", 12, "power to raise the dense base to")
	sparseCmd.Flags().Uint("psize", 4, "exponent slots per packed word")
	sparseCmd.Flags().Int64("truncate", -1, "total degree truncation (negative for none)")
}
