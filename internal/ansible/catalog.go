// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ansible

// registerTools builds the full tool catalog. Registration order is the
// order tools/list presents them in.
func (p *Provider) registerTools() {
	p.registerFileTools()
	p.registerInventoryTools()
	p.registerVarsTools()
	p.registerPlaybookTools()
	p.registerEngineTools()
	p.registerTemplateTools()
}
